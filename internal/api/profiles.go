// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
)

// ProfileRecord is one registered instance profile. The only well-known
// field is the ARN; everything else is carried through untouched.
type ProfileRecord map[string]any

// ARN returns the instance profile ARN, or "" when absent.
func (r ProfileRecord) ARN() string {
	v, _ := r["instance_profile_arn"].(string)
	return v
}

// InstanceProfileService wraps the instance-profiles endpoints.
type InstanceProfileService struct {
	client *Client
}

// NewInstanceProfileService returns an instance-profile service bound to the client.
func NewInstanceProfileService(c *Client) *InstanceProfileService {
	return &InstanceProfileService{client: c}
}

// List returns the registered instance profiles. Records without an ARN
// are dropped.
func (s *InstanceProfileService) List(ctx context.Context) ([]ProfileRecord, error) {
	var out struct {
		InstanceProfiles []ProfileRecord `json:"instance_profiles"`
	}
	if err := s.client.do(ctx, http.MethodGet, prefixV20+"/instance-profiles/list", nil, nil, &out); err != nil {
		return nil, err
	}
	var profiles []ProfileRecord
	for _, p := range out.InstanceProfiles {
		if p.ARN() != "" {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// Add registers an instance profile ARN with the workspace.
func (s *InstanceProfileService) Add(ctx context.Context, arn string) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/instance-profiles/add", nil,
		map[string]string{"instance_profile_arn": arn}, nil)
}
