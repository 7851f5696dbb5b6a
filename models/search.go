package models

import "github.com/kova98/nearmatch.api/scan"

// PostSearchRequest is decoded straight from the request body; Entry is
// taken as sent.
type PostSearchRequest struct {
	Term  string `json:"term"`
	Entry string `json:"entry"`
}

type SearchEntriesRequest struct {
	Term string `json:"term"`
}

type SearchEntriesResponse struct {
	Results []scan.EntryResult `json:"results"`
}
