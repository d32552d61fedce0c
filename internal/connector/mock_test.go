package connector

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/jobscout/pkg/greenhouse"
	"github.com/sells-group/jobscout/pkg/serper"
)

type mockSerperClient struct {
	mock.Mock
}

func (m *mockSerperClient) Search(ctx context.Context, req serper.SearchRequest) (*serper.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*serper.SearchResponse), args.Error(1)
}

type mockGreenhouseClient struct {
	mock.Mock
}

func (m *mockGreenhouseClient) ListJobs(ctx context.Context, board string) (*greenhouse.JobList, error) {
	args := m.Called(ctx, board)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*greenhouse.JobList), args.Error(1)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, link string) (*Detail, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Detail), args.Error(1)
}
