package dto

type RateLimitInfo struct {
	Limited   bool `json:"limited"`
	Remaining int  `json:"remaining"`
	ResetIn   int  `json:"reset_in"`
}

type RateLimitStats struct {
	TotalEntries  int            `json:"total_entries"`
	ActiveClients int            `json:"active_clients"`
	ByType        map[string]int `json:"by_type"`
}
