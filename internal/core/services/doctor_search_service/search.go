package doctor_search_service

import (
	"sort"
	"strings"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

type matchRank int

const (
	rankNamePrefix matchRank = iota
	rankNameContains
	rankSpecialization
	rankNone
)

// SearchDoctors matches doctors against an already normalized query.
// An empty query returns the first EmptyQueryLimit roster doctors.
// Otherwise every doctor whose name or specialization contains the query is
// returned, name-prefix matches first, then other name matches, then
// specialization matches, roster order within each rank.
func SearchDoctors(roster []domain.Doctor, schedules []domain.DoctorScheduleRecord, query string) []domain.DoctorSummary {
	counts := slotCountsByDoctor(schedules)

	if query == "" {
		limit := min(len(roster), EmptyQueryLimit)
		summaries := make([]domain.DoctorSummary, 0, limit)
		for _, doctor := range roster[:limit] {
			summaries = append(summaries, summarize(doctor, counts))
		}
		return summaries
	}

	type rankedDoctor struct {
		rank   matchRank
		doctor domain.Doctor
	}

	matches := make([]rankedDoctor, 0)
	for _, doctor := range roster {
		if rank := rankDoctor(doctor, query); rank != rankNone {
			matches = append(matches, rankedDoctor{rank: rank, doctor: doctor})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	summaries := make([]domain.DoctorSummary, 0, len(matches))
	for _, match := range matches {
		summaries = append(summaries, summarize(match.doctor, counts))
	}
	return summaries
}

func rankDoctor(doctor domain.Doctor, query string) matchRank {
	name := strings.ToLower(doctor.Name)
	switch {
	case strings.HasPrefix(name, query):
		return rankNamePrefix
	case strings.Contains(name, query):
		return rankNameContains
	case strings.Contains(strings.ToLower(doctor.Specialization), query):
		return rankSpecialization
	}
	return rankNone
}

type slotCounts struct {
	total int
	free  int
}

func slotCountsByDoctor(schedules []domain.DoctorScheduleRecord) map[string]slotCounts {
	counts := make(map[string]slotCounts)
	for _, schedule := range schedules {
		doctorID := schedule.ResolvedDoctor().ID
		total, free := schedule.SlotCounts()
		c := counts[doctorID]
		c.total += total
		c.free += free
		counts[doctorID] = c
	}
	return counts
}

func summarize(doctor domain.Doctor, counts map[string]slotCounts) domain.DoctorSummary {
	c := counts[doctor.ID]
	return domain.DoctorSummary{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		TotalSlots:     c.total,
		AvailableSlots: c.free,
	}
}
