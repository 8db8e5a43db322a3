package services

import (
	"strings"

	"golang.org/x/exp/slices"
)

// CleanSlots trims, drops empties, deduplicates and sorts a slot label list.
func CleanSlots(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// MergeSlots unions two slot sets into a sorted, deduplicated list.
func MergeSlots(existing, incoming []string) []string {
	return CleanSlots(append(slices.Clone(existing), incoming...))
}

// RemovedSlots returns the slots present in old but absent from new.
func RemovedSlots(oldSlots, newSlots []string) []string {
	removed := []string{}
	for _, s := range oldSlots {
		if !slices.Contains(newSlots, s) {
			removed = append(removed, s)
		}
	}
	return removed
}

// AvailableSlots is the set difference offered − booked, preserving the sorted
// order of the offered list. This is recomputed on every query; it is never
// cached because bookings flip between active and inactive at any time.
func AvailableSlots(offered, booked []string) []string {
	free := []string{}
	for _, s := range offered {
		if !slices.Contains(booked, s) {
			free = append(free, s)
		}
	}
	return free
}
