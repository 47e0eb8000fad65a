package analytics

import "sort"

// monthlyAvailableHours is the standard full-time availability assumed for
// utilization: 160 hours per employee per month.
const monthlyAvailableHours = 160.0

// EmployeeHours is one row of the hours-by-employee rollup.
type EmployeeHours struct {
	ID              string  `json:"id"`
	FirstName       string  `json:"nome"`
	LastName        string  `json:"cognome"`
	HoursWorked     float64 `json:"ore_lavorate"`
	ProductiveHours float64 `json:"ore_produttive"`
	BreakHours      float64 `json:"ore_pausa"`
}

// Utilization is one employee's load against standard availability.
type Utilization struct {
	EmployeeID         string  `json:"dipendenteId"`
	FirstName          string  `json:"nome"`
	LastName           string  `json:"cognome"`
	HoursWorked        float64 `json:"oreLavorate"`
	AvailableHours     float64 `json:"oreDisponibili"`
	UtilizationPercent float64 `json:"percentualeUtilizzo"`
	ProjectCount       int     `json:"numeroCommesse"`
}

// ComputeHoursByEmployee sums worked, break and productive hours per
// employee, sorted by worked hours descending. Entries without an employee
// reference are skipped.
func ComputeHoursByEmployee(bundle RawBundle) []EmployeeHours {
	byID := make(map[string]*EmployeeHours)
	for _, entry := range bundle.TimesheetEntries {
		if entry.EmployeeID == nil {
			continue
		}
		id := entry.EmployeeID.String()
		row, ok := byID[id]
		if !ok {
			row = &EmployeeHours{ID: id}
			if emp, found := findEmployee(bundle.Employees, id); found {
				row.FirstName = emp.FirstName
				row.LastName = emp.LastName
			}
			byID[id] = row
		}
		breakHours := entry.BreakMinutes / 60
		row.HoursWorked += entry.HoursWorked
		row.BreakHours += breakHours
		row.ProductiveHours += entry.HoursWorked - breakHours
	}

	rows := make([]EmployeeHours, 0, len(byID))
	for _, row := range byID {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].HoursWorked != rows[j].HoursWorked {
			return rows[i].HoursWorked > rows[j].HoursWorked
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

// ComputeResourceUtilization measures each known employee's worked hours
// against the standard monthly availability and counts the distinct projects
// their entries touch.
func ComputeResourceUtilization(bundle RawBundle) []Utilization {
	rows := make([]Utilization, 0, len(bundle.Employees))
	for _, emp := range bundle.Employees {
		var worked float64
		projects := make(map[string]struct{})
		for _, entry := range bundle.TimesheetEntries {
			if entry.EmployeeID == nil || *entry.EmployeeID != emp.ID {
				continue
			}
			worked += entry.HoursWorked
			if entry.ProjectID != nil {
				projects[entry.ProjectID.String()] = struct{}{}
			}
		}
		rows = append(rows, Utilization{
			EmployeeID:         emp.ID.String(),
			FirstName:          emp.FirstName,
			LastName:           emp.LastName,
			HoursWorked:        worked,
			AvailableHours:     monthlyAvailableHours,
			UtilizationPercent: safePercent(worked, monthlyAvailableHours),
			ProjectCount:       len(projects),
		})
	}
	return rows
}

func findEmployee(employees []Employee, id string) (Employee, bool) {
	for _, emp := range employees {
		if emp.ID.String() == id {
			return emp, true
		}
	}
	return Employee{}, false
}
