package operationreport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/nexusgraph/federation-core/pkg/operationreport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReportAccumulatesBothKinds(t *testing.T) {
	var r operationreport.Report
	assert.False(t, r.HasErrors())

	r.AddExternalError(operationreport.ErrCannotQueryField("bar", "Foo"))
	r.AddInternalError(assertInvariant())

	assert.True(t, r.HasErrors())
	assert.Len(t, r.ExternalErrors, 1)
	assert.Len(t, r.InternalErrors, 1)
	assert.Contains(t, r.Error(), "Cannot query field")
}

func assertInvariant() error {
	return assertFailure{}
}

type assertFailure struct{}

func (assertFailure) Error() string { return "referencer desync" }

func TestReportReset(t *testing.T) {
	var r operationreport.Report
	r.AddExternalError(operationreport.ErrFieldAlreadyExists("Product", "sku"))
	r.Reset()
	assert.False(t, r.HasErrors())
}
