package spauditor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/domain/sharepoint"
	"spscan/test/helpers"
	"spscan/test/mocks"
)

const testSiteURL = "https://tenant.sharepoint.com/sites/test"

func TestPermissionCollector_GroupMembership(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}

	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Site Owners", Login: "Site Owners"},
	}, nil)
	dir.On("ListGroupMembers", mock.Anything, int64(1)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
		td.GuestUser(11, "Bob Guest", "bob_gmail.com#ext#@contoso.onmicrosoft.com"),
	}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)

	records, err := NewPermissionCollector().Collect(helpers.TestContext(), dir, testSiteURL, summary)

	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Equal(t, audit.ItemTypeSite, r.ItemType)
		assert.Equal(t, audit.SitePath, r.ItemPath)
		assert.Equal(t, "Site Owners", r.PrincipalName)
		assert.Equal(t, "Site Owners", r.Permission)
	}
	assert.False(t, records[0].IsExternal)
	assert.True(t, records[1].IsExternal, "guest member must classify as external")
	dir.AssertExpectations(t)
}

func TestPermissionCollector_MemberFetchFailureIsBestEffort(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}

	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 1, Title: "Locked Group", Login: "Locked Group"},
		{ID: 2, Title: "Site Members", Login: "Site Members"},
	}, nil)
	dir.On("ListGroupMembers", mock.Anything, int64(1)).
		Return(nil, contracts.ErrMembersUnavailable)
	dir.On("ListGroupMembers", mock.Anything, int64(2)).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
	}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)

	records, err := NewPermissionCollector().Collect(helpers.TestContext(), dir, testSiteURL, summary)

	require.NoError(t, err, "unavailable membership must not abort the site")
	require.Len(t, records, 1)
	assert.Equal(t, "Site Members", records[0].PrincipalName)
	assert.Zero(t, summary.Warnings, "expected miss is not a warning")
}

func TestPermissionCollector_SkipsSharingLinkGroups(t *testing.T) {
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}

	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{
		{ID: 5, Title: "SharingLinks.abc.Flexible", Login: "SharingLinks.abc123.Flexible.def"},
	}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{}, nil)

	records, err := NewPermissionCollector().Collect(helpers.TestContext(), dir, testSiteURL, summary)

	require.NoError(t, err)
	assert.Empty(t, records)
	dir.AssertNotCalled(t, "ListGroupMembers", mock.Anything, int64(5))
}

func TestPermissionCollector_DirectUsers(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}

	dir.On("ListGroups", mock.Anything).Return([]sharepoint.Group{}, nil)
	dir.On("ListUsers", mock.Anything).Return([]sharepoint.User{
		td.InternalUser(10, "Alice", "alice@contoso.com"),
		{ID: 11, Type: sharepoint.PrincipalTypeUser, Title: "System Account"}, // no email
		{ID: 12, Type: sharepoint.PrincipalTypeSecurity, Title: "All Staff", Email: "staff@contoso.com"},
	}, nil)

	records, err := NewPermissionCollector().Collect(helpers.TestContext(), dir, testSiteURL, summary)

	require.NoError(t, err)
	require.Len(t, records, 1, "only users with a known email produce direct records")
	assert.Equal(t, audit.PrincipalUser, records[0].PrincipalType)
	assert.Equal(t, audit.DirectAccessPermission, records[0].Permission)
	assert.Equal(t, "alice@contoso.com", records[0].UserEmail)
}

func TestPermissionCollector_GroupListFailure(t *testing.T) {
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}

	dir.On("ListGroups", mock.Anything).Return(nil, errors.New("503"))

	records, err := NewPermissionCollector().Collect(helpers.TestContext(), dir, testSiteURL, summary)

	require.Error(t, err)
	var fetchErr *audit.PermissionFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, testSiteURL, fetchErr.SiteURL)
	assert.Empty(t, records)
}
