package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPlacement_TimeOverlap(t *testing.T) {
	rules := bareRules()
	rules.DistinctTasksSameHour = true
	req := newRequest(monthDays(2026, 3), []Demand{
		timed("2026-03-02", "Acil", "A", "08:00", "16:00"),
		timed("2026-03-02", "Servis", "B", "12:00", "20:00"),
		timed("2026-03-02", "Servis", "C", "16:00", "20:00"),
		timed("2026-03-02", "Servis", "N", "20:00", "08:00"),
		untimed("2026-03-02", "Servis", "X", 4),
	}, people("a"), rules)
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "A")

	assert.Equal(t, RuleTimeOverlap, env.check(t, "a", "2026-03-02", "B").Rule)
	assert.True(t, env.check(t, "a", "2026-03-02", "C").Eligible)
	// Overnight shift only occupies 20:00-24:00 of its first day
	assert.True(t, env.check(t, "a", "2026-03-02", "N").Eligible)
	assert.Equal(t, RuleMissingShiftTime, env.check(t, "a", "2026-03-02", "X").Rule)
}

func TestCheckPlacement_WeekendBan(t *testing.T) {
	rules := bareRules()
	rules.WeekendBannedCodes = []string{"M4"}
	req := newRequest(monthDays(2026, 3), []Demand{
		untimed("2026-03-07", "", "M4", 4),
		untimed("2026-03-09", "", "M4", 4),
		untimed("2026-03-07", "", "M8", 8),
	}, people("a"), rules)
	env := newTestEnv(t, req)

	assert.Equal(t, RuleWeekendBan, env.check(t, "a", "2026-03-07", "m4").Rule)
	assert.True(t, env.check(t, "a", "2026-03-09", "M4").Eligible)
	assert.True(t, env.check(t, "a", "2026-03-07", "M8").Eligible)
}

func TestCheckPlacement_WeeklyHourLimit(t *testing.T) {
	rules := bareRules()
	rules.WeeklyHourLimit = 20
	req := newRequest(monthDays(2026, 3), []Demand{
		untimed("2026-03-02", "", "L", 12),
		untimed("2026-03-03", "", "S", 8),
		untimed("2026-03-04", "", "L", 12),
	}, people("a"), rules)
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "L")
	assert.True(t, env.check(t, "a", "2026-03-03", "S").Eligible)
	assert.Equal(t, RuleWeeklyHourLimit, env.check(t, "a", "2026-03-04", "L").Rule)
}

func TestCheckPlacement_PostNightRest(t *testing.T) {
	rules := bareRules()
	rules.PostNightRestHours = 24
	req := newRequest(monthDays(2026, 3), []Demand{
		night(timed("2026-03-02", "", "N", "20:00", "08:00")),
		timed("2026-03-03", "", "L", "16:00", "24:00"),
		timed("2026-03-04", "", "E", "08:00", "16:00"),
		night(timed("2026-03-03", "", "N", "20:00", "08:00")),
	}, people("a"), rules)
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "N")

	assert.Equal(t, RulePostNightRest, env.check(t, "a", "2026-03-03", "L").Rule)
	assert.True(t, env.check(t, "a", "2026-03-04", "E").Eligible)
	// Runs of nights are governed by the night cap
	assert.True(t, env.check(t, "a", "2026-03-03", "N").Eligible)
}

func TestCheckPlacement_NextDayAllowed(t *testing.T) {
	n := night(untimed("2026-03-02", "", "N", 16))
	n.NextDayAllowed = []string{"off", "n"}
	req := newRequest(monthDays(2026, 3), []Demand{
		n,
		untimed("2026-03-03", "", "G", 8),
		untimed("2026-03-03", "", "N", 16),
		untimed("2026-03-01", "", "G", 8),
	}, people("a", "b"), bareRules())
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "N")
	assert.Equal(t, RuleNextDayNotAllowed, env.check(t, "a", "2026-03-03", "G").Rule)
	assert.True(t, env.check(t, "a", "2026-03-03", "N").Eligible)

	// The whitelist also binds when the following day is filled first
	env.place(t, "b", "2026-03-03", "G")
	assert.Equal(t, RuleNextDayNotAllowed, env.check(t, "b", "2026-03-02", "N").Rule)
}

func TestCheckPlacement_MaxConsecutiveNights(t *testing.T) {
	rules := bareRules()
	rules.MaxConsecutiveNights = 2
	req := newRequest(monthDays(2026, 3), []Demand{
		night(untimed("2026-03-02", "", "N", 12)),
		night(untimed("2026-03-03", "", "N", 12)),
		night(untimed("2026-03-04", "", "N", 12)),
		untimed("2026-03-04", "", "G", 8),
	}, people("a"), rules)
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "N")
	env.place(t, "a", "2026-03-03", "N")
	assert.Equal(t, RuleMaxConsecutiveNights, env.check(t, "a", "2026-03-04", "N").Rule)
	assert.True(t, env.check(t, "a", "2026-03-04", "G").Eligible)
}

func TestCheckPlacement_GreenAreaQuota(t *testing.T) {
	rules := bareRules()
	rules.GreenArea = &GreenAreaQuota{ShiftCode: "Y", WeekdayLimit: 1, WeekendLimit: 2}
	weekday := untimed("2026-03-02", "Yeşil", "Y", 8)
	weekday.Required = 3
	weekend := untimed("2026-03-07", "Yeşil", "Y", 8)
	weekend.Required = 3
	req := newRequest(monthDays(2026, 3), []Demand{weekday, weekend}, people("a", "b", "c"), rules)
	env := newTestEnv(t, req)

	env.place(t, "a", "2026-03-02", "Y")
	assert.Equal(t, RuleGreenAreaQuota, env.check(t, "b", "2026-03-02", "Y").Rule)

	env.place(t, "a", "2026-03-07", "Y")
	assert.True(t, env.check(t, "b", "2026-03-07", "Y").Eligible)
	env.place(t, "b", "2026-03-07", "Y")
	assert.Equal(t, RuleGreenAreaQuota, env.check(t, "c", "2026-03-07", "Y").Rule)
}
