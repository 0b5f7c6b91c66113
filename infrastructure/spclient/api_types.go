package spclient

import (
	"encoding/json"
	"fmt"
)

// JSON payload structs for SharePoint REST responses. Field selectors are
// kept next to the structs they populate.

// SharePoint OData field selectors for consistent API queries
const (
	ListFields = `Id,Title,Hidden,ItemCount,BaseTemplate,RootFolder/ServerRelativeUrl`
	ItemFields = `Id,GUID,FileSystemObjectType,FileLeafRef,FileRef,Title,HasUniqueRoleAssignments,File/ServerRelativeUrl,Folder/ServerRelativeUrl`

	GroupFields = `Id,Title,LoginName`
	UserFields  = `Id,Title,LoginName,Email,PrincipalType,IsSiteAdmin`

	RoleAssignmentFields = `
		RoleAssignments/Member/Id,
		RoleAssignments/Member/Title,
		RoleAssignments/Member/LoginName,
		RoleAssignments/Member/PrincipalType,
		RoleAssignments/Member/Email,
		RoleAssignments/RoleDefinitionBindings/Id,
		RoleAssignments/RoleDefinitionBindings/Name
	`
)

type listPayload struct {
	Id           string
	Title        string
	Hidden       bool
	ItemCount    int
	BaseTemplate int
	RootFolder   struct{ ServerRelativeUrl string }
}

type itemPayload struct {
	Id                       int
	GUID                     string
	FileSystemObjectType     int
	FileLeafRef              string
	FileRef                  string
	Title                    string
	HasUniqueRoleAssignments bool
	File                     *struct{ ServerRelativeUrl string }
	Folder                   *struct{ ServerRelativeUrl string }
}

type groupPayload struct {
	Id        int64
	Title     string
	LoginName string
}

type userPayload struct {
	Id            int64
	Title         string
	LoginName     string
	Email         string
	PrincipalType int64
}

type memberPayload struct {
	Id            int64
	Title         string
	LoginName     string
	PrincipalType int64
	Email         string
}

type roleBindingPayload struct {
	Id   int64
	Name string
}

type roleAssignmentPayload struct {
	Member                 *memberPayload
	RoleDefinitionBindings []*roleBindingPayload
}

// decodeRoleAssignments handles both the wrapped object and direct-array
// response shapes SharePoint produces for role assignment queries.
func decodeRoleAssignments(data []byte) ([]*roleAssignmentPayload, error) {
	var payload struct {
		RoleAssignments []*roleAssignmentPayload
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.RoleAssignments != nil {
		return payload.RoleAssignments, nil
	}

	// Fallback: array directly
	var direct []*roleAssignmentPayload
	if err := json.Unmarshal(data, &direct); err != nil {
		return nil, fmt.Errorf("decode role assignments: %w", err)
	}
	return direct, nil
}

// --- Search API (tenant site enumeration) ---

// resultsList accepts both the verbose {"results":[...]} wrapper and a plain
// JSON array, which keeps one decode path for both OData modes.
type resultsList[T any] struct {
	Items []T
}

func (r *resultsList[T]) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Results != nil {
		r.Items = wrapped.Results
		return nil
	}
	var direct []T
	if err := json.Unmarshal(b, &direct); err != nil {
		return err
	}
	r.Items = direct
	return nil
}

type searchCell struct {
	Key   string
	Value string
}

type searchRow struct {
	Cells resultsList[searchCell]
}

type searchPrimaryResult struct {
	RelevantResults struct {
		Table struct {
			Rows resultsList[searchRow]
		}
		TotalRows int
	}
}

type searchQueryPayload struct {
	PrimaryQueryResult searchPrimaryResult
}

// decodeSearchResponse peels the verbose {"d":{"query":{...}}} envelope if
// present, otherwise decodes the minimal shape directly.
func decodeSearchResponse(data []byte) (searchQueryPayload, error) {
	var envelope struct {
		D struct {
			Query json.RawMessage `json:"query"`
		} `json:"d"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.D.Query) > 0 {
		var payload searchQueryPayload
		if err := json.Unmarshal(envelope.D.Query, &payload); err != nil {
			return searchQueryPayload{}, err
		}
		return payload, nil
	}

	var payload searchQueryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return searchQueryPayload{}, err
	}
	return payload, nil
}

// cellValue returns the named cell from a search result row.
func (r searchRow) cellValue(key string) string {
	for _, c := range r.Cells.Items {
		if c.Key == key {
			return c.Value
		}
	}
	return ""
}

// --- Sharing API (GetSharingInformation) ---

type linkDetailsPayload struct {
	ShareId  string
	LinkKind int
	Scope    int
	IsActive bool
	Url      *string
}

type linkLitePayload struct {
	IsInherited bool
	LinkDetails linkDetailsPayload
}

type sharingInfoPayload struct {
	PermissionsInformation struct {
		Links resultsList[linkLitePayload]
	}
}

// decodeSharingResponse probes for the "d" wrapper first, like the item
// decoder, then falls back to the minimal shape.
func decodeSharingResponse(data []byte) (sharingInfoPayload, error) {
	var probe struct {
		D json.RawMessage `json:"d"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && len(probe.D) > 0 {
		var s sharingInfoPayload
		if err := json.Unmarshal(probe.D, &s); err != nil {
			return sharingInfoPayload{}, err
		}
		return s, nil
	}
	var s sharingInfoPayload
	if err := json.Unmarshal(data, &s); err != nil {
		return sharingInfoPayload{}, err
	}
	return s, nil
}

// odataErrorCode extracts the error code from an OData error body, empty if
// the body is not an error payload.
func odataErrorCode(data []byte) string {
	var payload struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
		ODataError *struct {
			Code string `json:"code"`
		} `json:"odata.error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != nil {
		return payload.Error.Code
	}
	if payload.ODataError != nil {
		return payload.ODataError.Code
	}
	return ""
}
