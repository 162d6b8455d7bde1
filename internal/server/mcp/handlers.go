package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultListLimit = 20
	defaultDays      = 7
)

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func (s *Server) handleLookup(ctx context.Context, req *mcp.CallToolRequest, input LookupInput) (*mcp.CallToolResult, LookupOutput, error) {
	var output LookupOutput

	policy := s.dashboard.DefaultMatch()
	if input.Match != "" {
		p, err := customers.ParseMatchPolicy(input.Match)
		if err != nil {
			output.Error = err.Error()
			return textResult(output.Error, true), output, nil
		}
		policy = p
	}

	rec, err := s.dashboard.Customer(ctx, input.Query, policy)
	if err != nil {
		output.Error = err.Error()
		var amb *customers.AmbiguousMatchError
		if errors.As(err, &amb) {
			output.Candidates = amb.Candidates
		}
		s.log.Debug(ctx, "lookup failed", "query", input.Query, "error", err)
		return textResult(fmt.Sprintf("Lookup failed: %v", err), true), output, nil
	}

	output.Customer = rec
	return textResult(fmt.Sprintf("Customer %s: %d categories, %d files, last activity %q",
		rec.Identifier, len(rec.Categories), rec.FileCount, rec.LastActivity), false), output, nil
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	recs, err := s.dashboard.Recent(ctx, limit)
	if err != nil {
		return textResult(fmt.Sprintf("Listing failed: %v", err), true), ListOutput{}, nil
	}

	if recs == nil {
		recs = []*models.CustomerRecord{}
	}
	output := ListOutput{Customers: recs, Total: len(recs)}
	return textResult(fmt.Sprintf("Found %d customers", output.Total), false), output, nil
}

func (s *Server) handleStatistics(ctx context.Context, req *mcp.CallToolRequest, input StatisticsInput) (*mcp.CallToolResult, StatisticsOutput, error) {
	var output StatisticsOutput

	days := input.Days
	if days == 0 {
		days = defaultDays
	}
	st, err := s.dashboard.Statistics(ctx, days)
	if err != nil {
		output.Error = err.Error()
		return textResult(fmt.Sprintf("Statistics failed: %v", err), true), output, nil
	}

	output.Statistics = &st
	return textResult(fmt.Sprintf("%d files from %d customers between %s and %s",
		st.Totals.FilesInWindow, st.Totals.Customers, st.From, st.To), false), output, nil
}

func (s *Server) handleOverview(ctx context.Context, req *mcp.CallToolRequest, input OverviewInput) (*mcp.CallToolResult, OverviewOutput, error) {
	var output OverviewOutput

	o, err := s.dashboard.Overview(ctx)
	if err != nil {
		output.Error = err.Error()
		return textResult(fmt.Sprintf("Overview failed: %v", err), true), output, nil
	}

	output.Overview = &o
	return textResult(fmt.Sprintf("%d customers, %d files, %d archives",
		o.Customers, o.Files, o.Archives), false), output, nil
}
