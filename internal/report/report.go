package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/gearstock/console/internal/model"
)

// Pure reductions over already-fetched lists. Nothing here caches: every
// request recomputes from the lists it was given.

var monthNames = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

type StatusCount struct {
	Count   int `json:"cantidad"`
	Percent int `json:"porcentaje"`
}

type EquipmentStats struct {
	Total       int         `json:"total"`
	Available   StatusCount `json:"disponibles"`
	Loaned      StatusCount `json:"prestados"`
	Maintenance StatusCount `json:"mantenimiento"`
}

type LoanStats struct {
	Total    int         `json:"total"`
	Active   StatusCount `json:"activos"`
	Returned StatusCount `json:"devueltos"`
	Overdue  StatusCount `json:"retrasados"`
}

type CategoryCount struct {
	Category string `json:"categoria"`
	Count    int    `json:"cantidad"`
	Percent  int    `json:"porcentaje"`
}

type TopItem struct {
	EquipmentID int    `json:"implementoId"`
	Name        string `json:"nombre"`
	Count       int    `json:"cantidad"`
}

type MonthCount struct {
	Key   string `json:"clave"`  // YYYY-MM
	Label string `json:"mes"`    // localized abbreviation
	Count int    `json:"cantidad"`
}

type Monthly struct {
	Months []MonthCount `json:"meses"`
	Max    int          `json:"max"`
}

// percent rounds n/total to a whole percentage; a zero total is 0, never NaN.
func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

func EquipmentByStatus(items []model.Equipment) EquipmentStats {
	var available, loaned, maintenance int
	for _, it := range items {
		switch it.Status {
		case model.EquipmentAvailable:
			available++
		case model.EquipmentLoaned:
			loaned++
		case model.EquipmentMaintenance:
			maintenance++
		}
	}
	total := len(items)
	return EquipmentStats{
		Total:       total,
		Available:   StatusCount{available, percent(available, total)},
		Loaned:      StatusCount{loaned, percent(loaned, total)},
		Maintenance: StatusCount{maintenance, percent(maintenance, total)},
	}
}

func LoansByStatus(loans []model.Loan) LoanStats {
	var active, returned, overdue int
	for _, l := range loans {
		switch l.Status {
		case model.LoanActive:
			active++
		case model.LoanReturned:
			returned++
		case model.LoanOverdue:
			overdue++
		}
	}
	total := len(loans)
	return LoanStats{
		Total:    total,
		Active:   StatusCount{active, percent(active, total)},
		Returned: StatusCount{returned, percent(returned, total)},
		Overdue:  StatusCount{overdue, percent(overdue, total)},
	}
}

// ByCategory groups equipment by category, sorted by count descending with
// alphabetical tie-break so the output is deterministic.
func ByCategory(items []model.Equipment) []CategoryCount {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n, Percent: percent(n, len(items))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopLoaned counts loans per equipment id, keeps each item's display name
// from its most recent occurrence, and returns at most five entries sorted
// by count descending. Ties keep first-seen input order.
func TopLoaned(loans []model.Loan) []TopItem {
	byID := make(map[int]*TopItem)
	order := make([]int, 0)
	for _, l := range loans {
		item, ok := byID[l.EquipmentID]
		if !ok {
			item = &TopItem{EquipmentID: l.EquipmentID}
			byID[l.EquipmentID] = item
			order = append(order, l.EquipmentID)
		}
		item.Name = l.Equipment.Name
		item.Count++
	}
	out := make([]TopItem, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// PerMonth keys loans by year-month of the loan date and keeps the most
// recent six distinct months present in the data, ascending.
func PerMonth(loans []model.Loan) Monthly {
	counts := make(map[string]int)
	for _, l := range loans {
		if l.LoanDate.IsZero() {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", l.LoanDate.Year(), int(l.LoanDate.Month()))
		counts[key]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 6 {
		keys = keys[len(keys)-6:]
	}

	m := Monthly{Months: make([]MonthCount, 0, len(keys)), Max: 1}
	for _, k := range keys {
		var year, month int
		fmt.Sscanf(k, "%d-%d", &year, &month)
		label := ""
		if month >= 1 && month <= 12 {
			label = monthNames[month-1]
		}
		mc := MonthCount{Key: k, Label: label, Count: counts[k]}
		if mc.Count > m.Max {
			m.Max = mc.Count
		}
		m.Months = append(m.Months, mc)
	}
	return m
}

// Dashboard is the landing view's counters. Loans passed in are already
// role-scoped (own for students, all for admins).
type Dashboard struct {
	TotalEquipment int `json:"totalImplementos"`
	Available      int `json:"disponibles"`
	Loaned         int `json:"enPrestamo"`
	ActiveLoans    int `json:"prestamosActivos"`
}

func BuildDashboard(items []model.Equipment, loans []model.Loan) Dashboard {
	d := Dashboard{TotalEquipment: len(items)}
	for _, it := range items {
		switch it.Status {
		case model.EquipmentAvailable:
			d.Available++
		case model.EquipmentLoaned:
			d.Loaned++
		}
	}
	for _, l := range loans {
		if l.Status == model.LoanActive {
			d.ActiveLoans++
		}
	}
	return d
}
