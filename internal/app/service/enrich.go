package service

import (
	"sort"

	"leet_tracker/internal/domain/model"
)

// enrichQuestion merges q with the progress records written for it. The
// current owner's record fills the top-level fields; every DONE record is
// reported as a completion regardless of who is looking.
func enrichQuestion(q model.Question, records []model.ProgressRecord, current model.Owner) model.EnrichedQuestion {
	eq := model.EnrichedQuestion{
		Question:         q,
		Status:           model.ProgressTodo,
		Topics:           []string{},
		CompletedByUsers: []model.Completion{},
		AllUsersProgress: []model.UserProgressSummary{},
	}

	var mine *model.ProgressRecord
	for i := range records {
		p := &records[i]
		owner := p.Owner()
		if mine == nil && owner == current {
			mine = p
		}

		eq.AllUsersProgress = append(eq.AllUsersProgress, model.UserProgressSummary{
			Username:        owner.DisplayName(),
			Status:          p.Status,
			Notes:           p.Notes,
			StartedAt:       p.StartedAt,
			CompletedAt:     p.CompletedAt,
			TimeComplexity:  p.TimeComplexity,
			SpaceComplexity: p.SpaceComplexity,
			Explanation:     p.Explanation,
		})

		if p.Status == model.ProgressDone {
			eq.CompletedByUsers = append(eq.CompletedByUsers, model.Completion{
				Username:        owner.DisplayName(),
				StartedAt:       p.StartedAt,
				CompletedAt:     p.CompletedAt,
				Notes:           p.Notes,
				TimeComplexity:  p.TimeComplexity,
				SpaceComplexity: p.SpaceComplexity,
				ComplexityNotes: p.ComplexityNotes,
				Explanation:     p.Explanation,
			})
		}
	}
	eq.TotalCompletions = len(eq.CompletedByUsers)

	sort.SliceStable(eq.AllUsersProgress, func(i, j int) bool {
		return eq.AllUsersProgress[i].Username < eq.AllUsersProgress[j].Username
	})
	sort.SliceStable(eq.CompletedByUsers, func(i, j int) bool {
		return eq.CompletedByUsers[i].Username < eq.CompletedByUsers[j].Username
	})

	if mine != nil {
		eq.Status = mine.Status
		eq.Notes = deref(mine.Notes)
		eq.TimeComplexity = deref(mine.TimeComplexity)
		eq.SpaceComplexity = deref(mine.SpaceComplexity)
		eq.ComplexityNotes = deref(mine.ComplexityNotes)
		eq.Explanation = deref(mine.Explanation)
		if mine.Topics != nil {
			eq.Topics = mine.Topics
		}
		eq.StartedAt = mine.StartedAt
		eq.CompletedAt = mine.CompletedAt
	}
	return eq
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
