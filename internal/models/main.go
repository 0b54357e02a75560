// Package models defines the core data structures for policies and feedback.
package models

import "time"

// Policy is a government subsidy or program record as stored in the
// policies table of the hosted data service.
type Policy struct {
	// ID is the identifier assigned by the data service.
	ID int64 `json:"id"`
	// Title is the short headline of the policy.
	Title string `json:"title"`
	// Description is the free-text summary shown in listings.
	Description string `json:"description"`
	// Target is the demographic the policy applies to.
	Target string `json:"target"`
	// Region is the geographic scope of the policy.
	Region string `json:"region"`
	// ApplicationPeriod is filled only on detail reads.
	ApplicationPeriod *string `json:"application_period,omitempty"`
	// ApplicationMethod is filled only on detail reads.
	ApplicationMethod *string `json:"application_method,omitempty"`
	// RequiredDocuments is filled only on detail reads.
	RequiredDocuments *string `json:"required_documents,omitempty"`
	// Contact is filled only on detail reads.
	Contact *string `json:"contact,omitempty"`
}

// Feedback is a free-text comment written to the feedback table.
type Feedback struct {
	// Comment is the text exactly as the visitor typed it.
	Comment string `json:"comment" validate:"required"`
	// PolicyID optionally ties the feedback to a policy; nil is stored as NULL.
	PolicyID *int64 `json:"policy_id" validate:"omitempty,gt=0"`
	// CreatedAt is assigned by the data service and never sent.
	CreatedAt time.Time `json:"-"`
}

// All is the filter value that disables the region or target predicate.
const All = "all"

// Regions lists the region values offered by the filter controls.
var Regions = []string{"서울", "경기", "부산", "대구", "인천", "전국"}

// Targets lists the target demographics offered by the filter controls.
var Targets = []string{"청년", "신혼부부", "소상공인", "여성", "중장년", "농어업인", "부모"}

// IsRegion reports whether v is All or one of Regions.
func IsRegion(v string) bool {
	return v == All || contains(Regions, v)
}

// IsTarget reports whether v is All or one of Targets.
func IsTarget(v string) bool {
	return v == All || contains(Targets, v)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
