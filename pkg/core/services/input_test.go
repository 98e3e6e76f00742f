package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput_YAML(t *testing.T) {
	in, err := ParseInput([]byte(`
month: "2026-03"
tasks:
  - role: Acil
    shiftCode: G
    perDay: 2
  - role: Sorumlu
    shiftCode: S
    weekly: {mon: 1, fri: 1}
    responsible: true
people:
  - id: a
    areas: [Acil]
  - id: b
    nightAllowed: false
    supervisor: true
leaves:
  - personId: a
    date: "2026-03-10"
    code: KN
    shiftCode: N
`))
	require.NoError(t, err)

	assert.Equal(t, "2026-03", in.Month)
	require.Len(t, in.Tasks, 2)
	assert.Equal(t, 2, in.Tasks[0].PerDay)
	assert.Equal(t, map[string]int{"mon": 1, "fri": 1}, in.Tasks[1].Weekly)
	require.Len(t, in.People, 2)
	require.NotNil(t, in.People[1].NightAllowed)
	assert.False(t, *in.People[1].NightAllowed)
	assert.Nil(t, in.People[0].NightAllowed)
	assert.Equal(t, "N", in.Leaves[0].ShiftCode)
}

func TestLoadInput_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "march.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "month": "2026-03",
  "tasks": [{"shiftCode": "G", "rrule": "FREQ=WEEKLY;BYDAY=SA", "count": 2}],
  "people": [{"id": "a"}],
  "pinned": [{"personId": "a", "date": "2026-03-07", "shiftCode": "G"}]
}`), 0644))

	in, err := LoadInput(path)
	require.NoError(t, err)

	assert.Equal(t, "FREQ=WEEKLY;BYDAY=SA", in.Tasks[0].RRule)
	assert.Equal(t, 2, in.Tasks[0].Count)
	require.Len(t, in.Pinned, 1)
	assert.Equal(t, "2026-03-07", in.Pinned[0].Date)
}

func TestParseInput_UnknownKey(t *testing.T) {
	_, err := ParseInput([]byte("month: \"2026-03\"\nstaff: []\n"))
	assert.ErrorContains(t, err, "failed to parse roster input")
}

func TestLoadInput_Missing(t *testing.T) {
	_, err := LoadInput("/nonexistent/march.yaml")
	assert.ErrorContains(t, err, "failed to read roster input")
}
