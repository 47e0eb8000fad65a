package analytics

import "sort"

// unknownClient labels revenue whose client record could not be resolved.
const unknownClient = "Sconosciuto"

// topClientsLimit caps the client ranking length.
const topClientsLimit = 10

// ClientRevenue is one row of the top-clients ranking.
type ClientRevenue struct {
	ID           string  `json:"id"`
	RegisteredAs string  `json:"ragione_sociale"`
	Revenue      float64 `json:"fatturato"`
	ProjectCount int     `json:"numeroCommesse"`
}

// ComputeTopClients aggregates issued-invoice revenue per client through its
// projects and returns the ten highest earners with revenue above zero.
func ComputeTopClients(bundle RawBundle) []ClientRevenue {
	names := make(map[string]string, len(bundle.Clients))
	for _, c := range bundle.Clients {
		names[c.ID.String()] = c.RegisteredAs
	}

	stats := make(map[string]*ClientRevenue)
	for _, p := range bundle.Projects {
		if p.ClientID == nil {
			continue
		}
		clientID := p.ClientID.String()
		row, ok := stats[clientID]
		if !ok {
			name := names[clientID]
			if name == "" {
				name = unknownClient
			}
			row = &ClientRevenue{ID: clientID, RegisteredAs: name}
			stats[clientID] = row
		}
		revenue, _ := projectTotals(bundle, p.ID)
		row.Revenue += revenue
		row.ProjectCount++
	}

	ranked := make([]ClientRevenue, 0, len(stats))
	for _, row := range stats {
		if row.Revenue > 0 {
			ranked = append(ranked, *row)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > topClientsLimit {
		ranked = ranked[:topClientsLimit]
	}
	return ranked
}
