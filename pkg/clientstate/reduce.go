package clientstate

import (
	"sort"

	"github.com/google/uuid"
)

// Reduce folds one action into the state and returns the next state. The
// input state is never mutated; slices are copied before changing.
func Reduce(state State, action Action) State {
	next := state
	next.Err = ""

	switch a := action.(type) {
	case SummariesLoaded:
		next.Summaries = append([]Summary(nil), a.Summaries...)
		sortSummaries(next.Summaries)

	case ConversationOpened:
		conv := a.Conversation
		conv.Messages = append([]Message(nil), conv.Messages...)
		next.Open = &conv

	case ConversationClosed:
		next.Open = nil
		next.Sending = false
		next.Draft = ""

	case SubmitStarted:
		next.Sending = true
		next.Draft = a.Draft

	case SubmitSucceeded:
		next.Sending = false
		next.Draft = ""
		conv := a.Conversation
		conv.Messages = append([]Message(nil), conv.Messages...)
		next.Open = &conv
		next.Summaries = upsertSummary(next.Summaries, conv.Id, func(s *Summary) {
			s.Title = conv.Title
			s.MessageCount = int64(len(conv.Messages))
			s.UpdatedAt = conv.UpdatedAt
			if last := lastMessage(conv.Messages); last != nil {
				m := *last
				s.LastMessage = &m
			}
		})

	case SubmitFailed:
		next.Sending = false
		next.Err = a.Err

	case MessageReceived:
		if next.Open != nil && next.Open.Id == a.ConversationId {
			next.Open = appendMessage(next.Open, a.Message)
		}
		next.Summaries = upsertSummary(next.Summaries, a.ConversationId, func(s *Summary) {
			if s.LastMessage == nil || s.LastMessage.Id != a.Message.Id {
				s.MessageCount++
				m := a.Message
				s.LastMessage = &m
			}
			if a.Message.CreatedAt.After(s.UpdatedAt) {
				s.UpdatedAt = a.Message.CreatedAt
			}
		})

	case ConversationRenamed:
		if next.Open != nil && next.Open.Id == a.ConversationId {
			conv := *next.Open
			conv.Title = a.Title
			next.Open = &conv
		}
		next.Summaries = touchSummary(next.Summaries, a.ConversationId, func(s *Summary) {
			s.Title = a.Title
		})

	case ConversationDeleted:
		if next.Open != nil && next.Open.Id == a.ConversationId {
			next.Open = nil
		}
		summaries := make([]Summary, 0, len(next.Summaries))
		for _, s := range next.Summaries {
			if s.Id != a.ConversationId {
				summaries = append(summaries, s)
			}
		}
		next.Summaries = summaries
	}

	return next
}

// appendMessage adds the message to a copy of the open conversation unless a
// message with the same id is already present.
func appendMessage(open *Conversation, message Message) *Conversation {
	for _, m := range open.Messages {
		if m.Id == message.Id {
			return open
		}
	}
	conv := *open
	conv.Messages = append(append([]Message(nil), open.Messages...), message)
	if message.CreatedAt.After(conv.UpdatedAt) {
		conv.UpdatedAt = message.CreatedAt
	}
	return &conv
}

// touchSummary applies fn to the summary with the given id on a copied slice
// and re-sorts. Unknown ids are ignored; the next SummariesLoaded reconciles.
func touchSummary(summaries []Summary, id uuid.UUID, fn func(*Summary)) []Summary {
	idx := -1
	for i := range summaries {
		if summaries[i].Id == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return summaries
	}

	out := append([]Summary(nil), summaries...)
	fn(&out[idx])
	sortSummaries(out)
	return out
}

// upsertSummary is touchSummary with insert-on-miss, so a conversation created
// in this session shows up in the sidebar without a refetch.
func upsertSummary(summaries []Summary, id uuid.UUID, fn func(*Summary)) []Summary {
	idx := -1
	for i := range summaries {
		if summaries[i].Id == id {
			idx = i
			break
		}
	}

	out := append([]Summary(nil), summaries...)
	if idx == -1 {
		out = append(out, Summary{Id: id})
		idx = len(out) - 1
	}
	fn(&out[idx])
	sortSummaries(out)
	return out
}

func sortSummaries(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
}

func lastMessage(messages []Message) *Message {
	if len(messages) == 0 {
		return nil
	}
	return &messages[len(messages)-1]
}
