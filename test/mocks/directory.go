package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
)

// MockTenantDirectory implements contracts.TenantDirectory for testing
type MockTenantDirectory struct {
	mock.Mock
}

func (m *MockTenantDirectory) ListSites(ctx context.Context) ([]sharepoint.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.Site), args.Error(1)
}

func (m *MockTenantDirectory) Connect(ctx context.Context, siteURL string) (contracts.SiteDirectory, error) {
	args := m.Called(ctx, siteURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contracts.SiteDirectory), args.Error(1)
}

// MockSiteDirectory implements contracts.SiteDirectory for testing
type MockSiteDirectory struct {
	mock.Mock
}

func (m *MockSiteDirectory) ListGroups(ctx context.Context) ([]sharepoint.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.Group), args.Error(1)
}

func (m *MockSiteDirectory) ListGroupMembers(ctx context.Context, groupID int64) ([]sharepoint.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.User), args.Error(1)
}

func (m *MockSiteDirectory) ListUsers(ctx context.Context) ([]sharepoint.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.User), args.Error(1)
}

func (m *MockSiteDirectory) ListLibraries(ctx context.Context) ([]sharepoint.Library, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.Library), args.Error(1)
}

func (m *MockSiteDirectory) ListLibraryPermissions(ctx context.Context, libraryID string) ([]sharepoint.Assignment, error) {
	args := m.Called(ctx, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.Assignment), args.Error(1)
}

// WalkItems invokes fn for each item configured via OnWalkItems before
// returning the configured error.
func (m *MockSiteDirectory) WalkItems(ctx context.Context, libraryID string, pageSize int, fn func(sharepoint.Item) error) error {
	args := m.Called(ctx, libraryID, pageSize, fn)
	if items, ok := args.Get(0).([]sharepoint.Item); ok {
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

// OnWalkItems configures a WalkItems expectation that yields the given items.
func (m *MockSiteDirectory) OnWalkItems(libraryID string, items []sharepoint.Item, err error) *mock.Call {
	return m.On("WalkItems", mock.Anything, libraryID, mock.Anything, mock.Anything).Return(items, err)
}

func (m *MockSiteDirectory) ListItemPermissions(ctx context.Context, libraryID string, itemID int) ([]sharepoint.Assignment, error) {
	args := m.Called(ctx, libraryID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.Assignment), args.Error(1)
}

func (m *MockSiteDirectory) GetSharingLinks(ctx context.Context, item sharepoint.Item) ([]sharepoint.SharingLink, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.SharingLink), args.Error(1)
}

func (m *MockSiteDirectory) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockExporter implements contracts.Exporter for testing
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, path string, records []audit.Record) error {
	args := m.Called(ctx, path, records)
	return args.Error(0)
}

// MockRunStore implements contracts.RunStore for testing
type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) SaveRun(ctx context.Context, run *audit.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunStore) SaveRecords(ctx context.Context, runID string, records []audit.Record) error {
	args := m.Called(ctx, runID, records)
	return args.Error(0)
}

func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
