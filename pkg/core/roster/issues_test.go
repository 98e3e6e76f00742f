package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssues_MergesByDateAndShift(t *testing.T) {
	is := NewIssues()
	is.Add("2026-03-02", "Acil/G", 1, "no eligible candidate (LEAVE_BLOCK: 2)")
	is.Add("2026-03-02", "Acil/G", 2, "no eligible candidate (LEAVE_BLOCK: 2)")
	is.Add("2026-03-02", "Acil/G", 1, "no candidates")
	is.Add("2026-03-03", "Acil/G", 1, "")
	is.Add("2026-03-04", "Acil/G", 0, "ignored")

	assert.Equal(t, 2, is.Len())
	assert.Equal(t, []Issue{
		{Date: "2026-03-02", ShiftID: "Acil/G", Missing: 4, Reason: "no eligible candidate (LEAVE_BLOCK: 2); no candidates"},
		{Date: "2026-03-03", ShiftID: "Acil/G", Missing: 1},
	}, is.List())
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "no candidates", rejectionReason(nil))
	assert.Equal(t,
		"no eligible candidate (MIN_REST_HOURS: 3, AREA_MISMATCH: 1, LEAVE_BLOCK: 1)",
		rejectionReason(rejections{RuleLeaveBlock: 1, RuleMinRestHours: 3, RuleAreaMismatch: 1}),
	)
}
