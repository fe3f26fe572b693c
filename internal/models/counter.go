package models

type CounterResponse struct {
	Value int64 `json:"value"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
