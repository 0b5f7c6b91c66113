package spauditor

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

const testTenantURL = "https://tenant.sharepoint.com"

func TestSiteEnumerator_Enumerate(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockTenantDirectory{}

	expected := []sharepoint.Site{
		td.SimpleSite(testTenantURL+"/sites/a", "Site A"),
		td.SimpleSite(testTenantURL+"/sites/b", "Site B"),
	}
	dir.On("ListSites", mock.Anything).Return(expected, nil)

	sites, err := NewSiteEnumerator(dir, testTenantURL).Enumerate(helpers.TestContext())

	require.NoError(t, err)
	assert.Equal(t, expected, sites)
}

func TestSiteEnumerator_FetchFailure(t *testing.T) {
	dir := &mocks.MockTenantDirectory{}
	dir.On("ListSites", mock.Anything).Return(nil, errors.New("search down"))

	sites, err := NewSiteEnumerator(dir, testTenantURL).Enumerate(helpers.TestContext())

	require.Error(t, err)
	var enumErr *audit.EnumerationError
	require.ErrorAs(t, err, &enumErr)
	assert.Equal(t, testTenantURL, enumErr.TenantURL)
	assert.Empty(t, sites)
}
