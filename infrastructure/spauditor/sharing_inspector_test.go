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

func TestSharingLinkInspector_Inspect(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}
	file := td.FileItem(1, "report.docx", false)

	dir.On("GetSharingLinks", mock.Anything, file).Return([]sharepoint.SharingLink{
		td.AnonymousLink("share-1"),
		{ShareID: "share-2", Kind: "OrganizationView", Scope: "Organization", IsActive: true},
	}, nil)

	records := NewSharingLinkInspector().Inspect(
		helpers.TestContext(), dir, testSiteURL, "Documents/report.docx", file, summary)

	require.Len(t, records, 2)
	assert.Equal(t, "AnonymousView", records[0].LinkType)
	assert.Equal(t, "OrganizationView", records[1].LinkType)
	for _, r := range records {
		assert.Equal(t, audit.PrincipalSharingLink, r.PrincipalType)
		assert.Equal(t, "Documents/report.docx", r.ItemPath)
		assert.True(t, r.IsExternal)
		assert.True(t, r.HasExternalLinks)
	}
	assert.Equal(t, 2, summary.LinksFound)
}

func TestSharingLinkInspector_UnavailableIsSilent(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}
	file := td.FileItem(1, "report.docx", false)

	dir.On("GetSharingLinks", mock.Anything, file).
		Return(nil, contracts.ErrSharingInfoUnavailable)

	records := NewSharingLinkInspector().Inspect(
		helpers.TestContext(), dir, testSiteURL, "Documents/report.docx", file, summary)

	assert.Empty(t, records)
	assert.Zero(t, summary.Warnings)
}

func TestSharingLinkInspector_FaultIsLoggedAndSkipped(t *testing.T) {
	td := helpers.NewTestData()
	dir := &mocks.MockSiteDirectory{}
	summary := &audit.Summary{}
	file := td.FileItem(1, "report.docx", false)

	dir.On("GetSharingLinks", mock.Anything, file).Return(nil, errors.New("500"))

	records := NewSharingLinkInspector().Inspect(
		helpers.TestContext(), dir, testSiteURL, "Documents/report.docx", file, summary)

	assert.Empty(t, records)
	assert.Equal(t, 1, summary.Warnings)
}
