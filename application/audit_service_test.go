package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spscan/domain/audit"
	"spscan/domain/sharepoint"
	"spscan/test/helpers"
	"spscan/test/mocks"
)

const (
	testTenantURL = "https://tenant.sharepoint.com"
	testOutput    = "audit.csv"
)

func serviceParams() *audit.Parameters {
	return audit.DefaultParameters()
}

// emptySiteDirectory returns a site mock that yields no records at all.
func emptySiteDirectory() *mocks.MockSiteDirectory {
	dir := &mocks.MockSiteDirectory{}
	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)
	dir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{}, nil)
	dir.On("Close").Return(nil)
	return dir
}

func TestAuditService_EmptyTenantAbortsBeforeSiteLoop(t *testing.T) {
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{}, nil)

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.Error(t, err)
	var enumErr *audit.EnumerationError
	assert.ErrorAs(t, err, &enumErr)
	assert.Equal(t, audit.RunStateEnumerationFailed, run.State)
	assert.True(t, run.IsTerminal())
	tenant.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	exporter.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditService_EnumerationFailureIsFatal(t *testing.T) {
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	tenant.On("ListSites", mock.Anything).Return(nil, errors.New("search down"))

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.Error(t, err)
	assert.Equal(t, audit.RunStateEnumerationFailed, run.State)
	exporter.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditService_ZeroRecordsSkipsExport(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	site := td.SimpleSite(testTenantURL+"/sites/a", "Site A")
	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{site}, nil)
	tenant.On("Connect", mock.Anything, site.URL).Return(emptySiteDirectory(), nil)

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err)
	assert.Equal(t, audit.RunStateDone, run.State)
	assert.Equal(t, 1, run.Summary.SitesProcessed)
	assert.Zero(t, run.Summary.TotalRecords)
	exporter.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditService_PerSiteFailureIsolation(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	bad := td.SimpleSite(testTenantURL+"/sites/bad", "Bad")
	good := td.SimpleSite(testTenantURL+"/sites/good", "Good")

	goodDir := &mocks.MockSiteDirectory{}
	goodDir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Site Members", Login: "Site Members"},
	}, nil)
	goodDir.On("ListGroupMembers", mock.Anything, int64(1)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
	}, nil)
	goodDir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)
	goodDir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{}, nil)
	goodDir.On("Close").Return(nil)

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{bad, good}, nil)
	tenant.On("Connect", mock.Anything, bad.URL).Return(nil, errors.New("401"))
	tenant.On("Connect", mock.Anything, good.URL).Return(goodDir, nil)
	exporter.On("Export", mock.Anything, testOutput, mock.Anything).Return(nil)

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err, "a site failure never fails the run")
	assert.Equal(t, audit.RunStateDone, run.State)
	assert.Equal(t, 1, run.Summary.SitesFailed)
	assert.Equal(t, 1, run.Summary.SitesProcessed)
	assert.Equal(t, 1, run.Summary.TotalRecords)
	goodDir.AssertCalled(t, "Close")
}

func TestAuditService_SiteCollectionFailureSkipsWalk(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	bad := td.SimpleSite(testTenantURL+"/sites/bad", "Bad")
	good := td.SimpleSite(testTenantURL+"/sites/good", "Good")

	badDir := &mocks.MockSiteDirectory{}
	badDir.On("ListGroups", mock.Anything).Return(nil, errors.New("403 FORBIDDEN"))
	badDir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{
		td.SimpleLibrary("lib-1", "Documents", false, 1),
	}, nil)
	badDir.On("Close").Return(nil)

	goodDir := &mocks.MockSiteDirectory{}
	goodDir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Site Members", Login: "Site Members"},
	}, nil)
	goodDir.On("ListGroupMembers", mock.Anything, int64(1)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
	}, nil)
	goodDir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)
	goodDir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{}, nil)
	goodDir.On("Close").Return(nil)

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{bad, good}, nil)
	tenant.On("Connect", mock.Anything, bad.URL).Return(badDir, nil)
	tenant.On("Connect", mock.Anything, good.URL).Return(goodDir, nil)
	exporter.On("Export", mock.Anything, testOutput, mock.Anything).Return(nil)

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err)
	assert.Equal(t, 1, run.Summary.SitesFailed)
	assert.Equal(t, 1, run.Summary.SitesProcessed)
	assert.Equal(t, 1, run.Summary.TotalRecords)
	// The failed site's remaining steps are skipped entirely.
	badDir.AssertNotCalled(t, "ListLibraries", mock.Anything)
	badDir.AssertCalled(t, "Close")
}

func TestAuditService_ConnectionAlwaysReleased(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	site := td.SimpleSite(testTenantURL+"/sites/a", "Site A")
	dir := &mocks.MockSiteDirectory{}
	dir.On("ListGroups", mock.Anything).Return(nil, errors.New("503"))
	dir.On("Close").Return(nil)

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{site}, nil)
	tenant.On("Connect", mock.Anything, site.URL).Return(dir, nil)

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err)
	assert.Equal(t, 1, run.Summary.SitesFailed)
	dir.AssertCalled(t, "Close")
}

func TestAuditService_ExternalLinksOnly(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	site := td.SimpleSite(testTenantURL+"/sites/a", "Site A")
	file := td.FileItem(1, "report.docx", false)

	dir := &mocks.MockSiteDirectory{}
	dir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{
		td.SimpleLibrary("lib-1", "Documents", false, 1),
	}, nil)
	dir.OnWalkItems("lib-1", []sharepoint.Item{file}, nil)
	dir.On("GetSharingLinks", mock.Anything, file).Return([]sharepoint.SharingLink{
		td.AnonymousLink("share-1"),
	}, nil)
	dir.On("Close").Return(nil)

	params := serviceParams()
	params.ExternalLinksOnly = true

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{site}, nil)
	tenant.On("Connect", mock.Anything, site.URL).Return(dir, nil)

	var exported []audit.Record
	exporter.On("Export", mock.Anything, testOutput, mock.Anything).
		Run(func(args mock.Arguments) {
			exported = args.Get(2).([]audit.Record)
		}).
		Return(nil)

	service := NewAuditService(tenant, exporter, nil, params)
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err)
	assert.Equal(t, audit.RunStateDone, run.State)
	// The site-level membership pass is skipped outright.
	dir.AssertNotCalled(t, "ListGroups", mock.Anything)
	dir.AssertNotCalled(t, "ListUsers", mock.Anything)

	require.Len(t, exported, 1)
	assert.True(t, exported[0].HasExternalLinks)
	assert.Equal(t, run.Summary.TotalRecords, run.Summary.ExternalRecords)
}

func TestAuditService_ExportFailureIsFatal(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}

	site := td.SimpleSite(testTenantURL+"/sites/a", "Site A")
	dir := &mocks.MockSiteDirectory{}
	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Site Members", Login: "Site Members"},
	}, nil)
	dir.On("ListGroupMembers", mock.Anything, int64(1)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
	}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)
	dir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{}, nil)
	dir.On("Close").Return(nil)

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{site}, nil)
	tenant.On("Connect", mock.Anything, site.URL).Return(dir, nil)
	exporter.On("Export", mock.Anything, testOutput, mock.Anything).Return(errors.New("disk full"))

	service := NewAuditService(tenant, exporter, nil, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.Error(t, err)
	assert.Equal(t, audit.RunStateCriticalFailure, run.State)
}

func TestAuditService_PersistsRunAndRecords(t *testing.T) {
	td := helpers.NewTestData()
	tenant := &mocks.MockTenantDirectory{}
	exporter := &mocks.MockExporter{}
	runStore := &mocks.MockRunStore{}

	site := td.SimpleSite(testTenantURL+"/sites/a", "Site A")
	dir := &mocks.MockSiteDirectory{}
	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Site Members", Login: "Site Members"},
	}, nil)
	dir.On("ListGroupMembers", mock.Anything, int64(1)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
	}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)
	dir.On("ListLibraries", mock.Anything).Return([]sharepoint.Library{}, nil)
	dir.On("Close").Return(nil)

	tenant.On("ListSites", mock.Anything).Return([]sharepoint.Site{site}, nil)
	tenant.On("Connect", mock.Anything, site.URL).Return(dir, nil)
	exporter.On("Export", mock.Anything, testOutput, mock.Anything).Return(nil)
	runStore.On("SaveRun", mock.Anything, mock.Anything).Return(nil)
	runStore.On("SaveRecords", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := NewAuditService(tenant, exporter, runStore, serviceParams())
	run, err := service.Execute(helpers.TestContext(), testTenantURL, testOutput)

	require.NoError(t, err)
	runStore.AssertCalled(t, "SaveRecords", mock.Anything, run.ID, mock.Anything)
	runStore.AssertCalled(t, "SaveRun", mock.Anything, mock.Anything)
}
