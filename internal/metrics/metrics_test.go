package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(loginsTotal.WithLabelValues("success"))
	RecordLogin("success")
	assert.Equal(t, before+1, testutil.ToFloat64(loginsTotal.WithLabelValues("success")))

	before = testutil.ToFloat64(leadsCreated.WithLabelValues("public"))
	RecordLeadCreated("public")
	assert.Equal(t, before+1, testutil.ToFloat64(leadsCreated.WithLabelValues("public")))

	before = testutil.ToFloat64(activitiesRecorded.WithLabelValues("call"))
	RecordActivity("call")
	assert.Equal(t, before+1, testutil.ToFloat64(activitiesRecorded.WithLabelValues("call")))

	before = testutil.ToFloat64(assignmentsCreated)
	RecordAssignment()
	assert.Equal(t, before+1, testutil.ToFloat64(assignmentsCreated))

	before = testutil.ToFloat64(emailsTotal.WithLabelValues("sent"))
	RecordEmail("sent")
	assert.Equal(t, before+1, testutil.ToFloat64(emailsTotal.WithLabelValues("sent")))
}
