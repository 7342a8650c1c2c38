package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gearstock/console/internal/model"
	"github.com/gearstock/console/internal/report"
)

func eq(id int, name, category, status string) model.Equipment {
	return model.Equipment{ID: id, Name: name, Category: category, Status: status}
}

func ln(equipmentID int, name, status string, loanDate time.Time) model.Loan {
	return model.Loan{
		EquipmentID: equipmentID,
		Status:      status,
		LoanDate:    model.Timestamp{Time: loanDate},
		Equipment:   model.Equipment{ID: equipmentID, Name: name},
	}
}

func TestEquipmentByStatus(t *testing.T) {
	t.Parallel()
	items := []model.Equipment{
		eq(1, "Balón", "Fútbol", model.EquipmentAvailable),
		eq(2, "Red", "Vóley", model.EquipmentAvailable),
		eq(3, "Raqueta", "Tenis", model.EquipmentLoaned),
		eq(4, "Casco", "Ciclismo", model.EquipmentMaintenance),
	}
	stats := report.EquipmentByStatus(items)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, report.StatusCount{Count: 2, Percent: 50}, stats.Available)
	require.Equal(t, report.StatusCount{Count: 1, Percent: 25}, stats.Loaned)
	require.Equal(t, report.StatusCount{Count: 1, Percent: 25}, stats.Maintenance)
}

func TestEquipmentByStatus_EmptyGuardsDivision(t *testing.T) {
	t.Parallel()
	stats := report.EquipmentByStatus(nil)
	require.Equal(t, 0, stats.Total)
	require.Equal(t, 0, stats.Available.Percent)
	require.Equal(t, 0, stats.Loaned.Percent)
	require.Equal(t, 0, stats.Maintenance.Percent)
}

func TestLoansByStatus(t *testing.T) {
	t.Parallel()
	now := time.Now()
	loans := []model.Loan{
		ln(1, "Balón", model.LoanActive, now),
		ln(2, "Red", model.LoanReturned, now),
		ln(3, "Raqueta", model.LoanOverdue, now),
		ln(1, "Balón", model.LoanActive, now),
	}
	stats := report.LoansByStatus(loans)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 2, stats.Active.Count)
	require.Equal(t, 50, stats.Active.Percent)
	require.Equal(t, 1, stats.Returned.Count)
	require.Equal(t, 1, stats.Overdue.Count)
}

func TestByCategory(t *testing.T) {
	t.Parallel()
	items := []model.Equipment{
		eq(1, "a", "Fútbol", model.EquipmentAvailable),
		eq(2, "b", "Fútbol", model.EquipmentAvailable),
		eq(3, "c", "Tenis", model.EquipmentAvailable),
		eq(4, "d", "Vóley", model.EquipmentAvailable),
	}
	got := report.ByCategory(items)
	require.Equal(t, []report.CategoryCount{
		{Category: "Fútbol", Count: 2, Percent: 50},
		{Category: "Tenis", Count: 1, Percent: 25},
		{Category: "Vóley", Count: 1, Percent: 25},
	}, got)
}

func TestTopLoaned(t *testing.T) {
	t.Parallel()
	now := time.Now()
	var loans []model.Loan
	for i := 0; i < 3; i++ {
		loans = append(loans, ln(1, "A", model.LoanReturned, now))
	}
	loans = append(loans, ln(2, "B", model.LoanActive, now))
	for i := 0; i < 5; i++ {
		loans = append(loans, ln(3, "C", model.LoanActive, now))
	}

	got := report.TopLoaned(loans)
	require.Equal(t, []report.TopItem{
		{EquipmentID: 3, Name: "C", Count: 5},
		{EquipmentID: 1, Name: "A", Count: 3},
		{EquipmentID: 2, Name: "B", Count: 1},
	}, got)
}

func TestTopLoaned_TruncatesToFiveAndKeepsLatestName(t *testing.T) {
	t.Parallel()
	now := time.Now()
	var loans []model.Loan
	for id := 1; id <= 7; id++ {
		for i := 0; i <= id; i++ {
			loans = append(loans, ln(id, "old", model.LoanActive, now))
		}
		// the name shown is the one from the most recent occurrence
		loans = append(loans, ln(id, "new", model.LoanActive, now))
	}
	got := report.TopLoaned(loans)
	require.Len(t, got, 5)
	require.Equal(t, 7, got[0].EquipmentID)
	for _, item := range got {
		require.Equal(t, "new", item.Name)
	}
}

func TestTopLoaned_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()
	now := time.Now()
	loans := []model.Loan{
		ln(9, "Primero", model.LoanActive, now),
		ln(4, "Segundo", model.LoanActive, now),
		ln(7, "Tercero", model.LoanActive, now),
	}
	got := report.TopLoaned(loans)
	require.Equal(t, []int{9, 4, 7}, []int{got[0].EquipmentID, got[1].EquipmentID, got[2].EquipmentID})
}

func TestPerMonth(t *testing.T) {
	t.Parallel()
	date := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)
	}
	var loans []model.Loan
	// eight distinct months; only the latest six survive
	for m := time.January; m <= time.August; m++ {
		loans = append(loans, ln(1, "A", model.LoanActive, date(2025, m)))
	}
	loans = append(loans, ln(1, "A", model.LoanActive, date(2025, time.August)))

	got := report.PerMonth(loans)
	require.Len(t, got.Months, 6)
	require.Equal(t, "2025-03", got.Months[0].Key)
	require.Equal(t, "Mar", got.Months[0].Label)
	require.Equal(t, "2025-08", got.Months[5].Key)
	require.Equal(t, "Ago", got.Months[5].Label)
	require.Equal(t, 2, got.Months[5].Count)
	require.Equal(t, 2, got.Max)
}

func TestPerMonth_Empty(t *testing.T) {
	t.Parallel()
	got := report.PerMonth(nil)
	require.Empty(t, got.Months)
	require.Equal(t, 1, got.Max)
}

func TestBuildDashboard(t *testing.T) {
	t.Parallel()
	now := time.Now()
	items := []model.Equipment{
		eq(1, "a", "Fútbol", model.EquipmentAvailable),
		eq(2, "b", "Fútbol", model.EquipmentLoaned),
		eq(3, "c", "Tenis", model.EquipmentMaintenance),
	}
	loans := []model.Loan{
		ln(2, "b", model.LoanActive, now),
		ln(1, "a", model.LoanReturned, now),
	}
	require.Equal(t, report.Dashboard{
		TotalEquipment: 3,
		Available:      1,
		Loaned:         1,
		ActiveLoans:    1,
	}, report.BuildDashboard(items, loans))
}
