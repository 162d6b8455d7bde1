package mcp

import "github.com/dmitrijs2005/fileboard/internal/server/models"

type LookupInput struct {
	Query string `json:"query" jsonschema:"customer identifier or part of it"`
	Match string `json:"match,omitempty" jsonschema:"exact, prefix or contains; server default when empty"`
}

type LookupOutput struct {
	Customer   *models.CustomerRecord `json:"customer,omitempty"`
	Candidates []string               `json:"candidates,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of customers, default 20"`
}

type ListOutput struct {
	Customers []*models.CustomerRecord `json:"customers"`
	Total     int                      `json:"total"`
}

type StatisticsInput struct {
	Days int `json:"days,omitempty" jsonschema:"window size in days (1-366), default 7"`
}

type StatisticsOutput struct {
	Statistics *models.Statistics `json:"statistics,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type OverviewInput struct{}

type OverviewOutput struct {
	Overview *models.Overview `json:"overview,omitempty"`
	Error    string           `json:"error,omitempty"`
}
