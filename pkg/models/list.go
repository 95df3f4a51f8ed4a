// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package models

import "time"

// ModelInfo is a single entry of the /v1/models listing.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ListResponse is the OpenAI-compatible /v1/models document.
type ListResponse struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// NewList renders the set as a listing stamped with now.
func NewList(s *Set, now time.Time) ListResponse {
	created := now.Unix()
	data := make([]ModelInfo, 0, s.Len())
	for _, id := range s.ids {
		data = append(data, ModelInfo{
			ID:      id,
			Object:  "model",
			Created: created,
			OwnedBy: OwnedBy,
		})
	}
	return ListResponse{
		Object: "list",
		Data:   data,
	}
}
