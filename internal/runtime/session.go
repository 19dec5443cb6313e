package runtime

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// maxChain bounds how many storylets one call may play through.
const maxChain = 1000

// Session drives one player through the content.
//
// Every call runs inside a single store transaction and holds the session
// lock from start to finish, so calls on one session never overlap and a
// session may be shared between goroutines. When a call fails the store rolls
// back and the session returns to where it was before the call.
type Session struct {
	engine *Engine
	store  ports.Store

	mu    sync.Mutex
	local local
}

// local is the session state that lives outside the store.
type local struct {
	started bool

	location *domain.Location
	storylet *domain.Storylet
	choices  []*domain.Choice

	// body and records accumulate across ambient storylets. Once returned they
	// are marked stale and wiped on the next write, not before.
	body       domain.Text
	records    []domain.AssignmentRecord
	staleBody  bool
	staleRecs  bool
	pending    []domain.AssignmentGroup
	navigation string

	// recent holds indexes of ambient storylets already picked.
	recent []int
}

func (l local) clone() local {
	c := l
	c.choices = slices.Clone(l.choices)
	c.body = slices.Clone(l.body)
	c.records = slices.Clone(l.records)
	c.pending = slices.Clone(l.pending)
	c.recent = slices.Clone(l.recent)
	return c
}

// Continue advances the session and returns what to show.
func (s *Session) Continue(ctx context.Context) (*domain.SessionState, error) {
	return s.step(ctx, s.execute)
}

// Choose submits the choice with the given id from the last returned state.
// Unknown or no longer eligible ids leave the session where it was.
func (s *Session) Choose(ctx context.Context, id int) (*domain.SessionState, error) {
	return s.step(ctx, func(ctx context.Context, tx ports.Transaction) (*domain.SessionState, error) {
		return s.choose(ctx, tx, id)
	})
}

// Reset forgets all player state, stored and local.
func (s *Session) Reset(ctx context.Context) error {
	_, err := s.step(ctx, func(ctx context.Context, tx ports.Transaction) (*domain.SessionState, error) {
		if err := tx.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear state: %w", err)
		}
		s.local = local{started: true}
		return nil, nil
	})
	return err
}

func (s *Session) step(ctx context.Context, run func(context.Context, ports.Transaction) (*domain.SessionState, error)) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.local.clone()
	var state *domain.SessionState
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Transaction) error {
		var err error
		state, err = run(ctx, tx)
		return err
	})
	if err != nil {
		s.local = saved
		return nil, err
	}
	return state, nil
}

// start picks up where a previous session over the same store left off.
func (s *Session) start(ctx context.Context, tx ports.Transaction) error {
	if s.local.started {
		return nil
	}
	model := s.engine.model

	if id, ok, err := tx.GetLocation(ctx); err != nil {
		return err
	} else if ok {
		if loc, found := model.Location(id); found {
			s.local.location = loc
		}
	}

	if id, ok, err := tx.GetStorylet(ctx); err != nil {
		return err
	} else if ok {
		if st, found := model.Storylet(id); found {
			s.local.storylet = st
		}
	}

	s.local.started = true
	return nil
}

func (s *Session) execute(ctx context.Context, tx ports.Transaction) (*domain.SessionState, error) {
	e := s.engine
	if err := s.start(ctx, tx); err != nil {
		return nil, err
	}
	if s.local.storylet == nil {
		if err := s.pickAmbient(ctx, tx); err != nil {
			return nil, err
		}
	}

	for steps := 0; s.local.storylet != nil; steps++ {
		if steps == maxChain {
			return nil, fmt.Errorf("%w after %d storylets", domain.ErrStoryletLoop, maxChain)
		}
		st := s.local.storylet

		if st.Body != nil {
			body, err := e.Render(ctx, tx, st.Body)
			if err != nil {
				return nil, err
			}
			s.writeBody(body)
		}

		s.local.pending = slices.Clone(st.Assignments)

		if st.Navigation != nil {
			dest, _, err := Resolve(ctx, e, tx, st.Navigation)
			if err != nil {
				return nil, err
			}
			s.local.navigation = dest
		}

		if st.Choices != nil {
			choices, err := s.gather(ctx, tx, st.Choices)
			if err != nil {
				return nil, err
			}
			if len(choices) > 0 {
				s.local.choices = choices
				views, err := s.choiceViews(ctx, tx, choices)
				if err != nil {
					return nil, err
				}
				return s.state(ctx, tx, views, st.Choices.Prompt)
			}
		}

		if err := s.commit(ctx, tx); err != nil {
			return nil, err
		}
	}

	views, err := s.listed(ctx, tx)
	if err != nil {
		return nil, err
	}

	if loc := s.local.location; loc != nil && loc.Body != nil {
		s.freshen()
		if len(s.local.body) == 0 {
			body, err := e.Render(ctx, tx, loc.Body)
			if err != nil {
				return nil, err
			}
			s.local.body = append(s.local.body, body...)
		}
	}

	return s.state(ctx, tx, views, nil)
}

func (s *Session) choose(ctx context.Context, tx ports.Transaction, id int) (*domain.SessionState, error) {
	e := s.engine
	if err := s.start(ctx, tx); err != nil {
		return nil, err
	}

	if s.local.storylet != nil {
		if id < 0 || id >= len(s.local.choices) {
			return s.execute(ctx, tx)
		}
		choice := s.local.choices[id]
		ok, err := s.eligible(ctx, tx, choice.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			return s.execute(ctx, tx)
		}
		s.chose(ctx, id, s.local.storylet.Name)
		return s.executeChoice(ctx, tx, choice)
	}

	storylets := e.model.Storylets
	if id < 0 || id >= len(storylets) {
		return s.execute(ctx, tx)
	}
	st := &storylets[id]
	ok, err := s.eligible(ctx, tx, st.Condition)
	if err != nil {
		return nil, err
	}
	if ok {
		s.chose(ctx, id, st.Name)
		if err := s.enter(ctx, tx, st, false); err != nil {
			return nil, err
		}
	}
	return s.execute(ctx, tx)
}

func (s *Session) executeChoice(ctx context.Context, tx ports.Transaction, choice *domain.Choice) (*domain.SessionState, error) {
	e := s.engine
	s.local.body, s.local.records = nil, nil
	s.local.staleBody, s.local.staleRecs = false, false

	if choice.Body != nil {
		body, err := e.Render(ctx, tx, choice.Body)
		if err != nil {
			return nil, err
		}
		s.local.body = append(s.local.body, body...)
	}

	s.local.pending = append(s.local.pending, choice.Assignments...)

	if choice.Navigation != nil {
		dest, _, err := Resolve(ctx, e, tx, choice.Navigation)
		if err != nil {
			return nil, err
		}
		s.local.navigation = dest
	}

	if err := s.commit(ctx, tx); err != nil {
		return nil, err
	}
	return s.execute(ctx, tx)
}

// commit applies the queued assignment groups and navigation, closes the
// active storylet and draws the next ambient one.
func (s *Session) commit(ctx context.Context, tx ports.Transaction) error {
	e := s.engine
	for _, group := range s.local.pending {
		results, err := e.apply(ctx, tx, group.Assignments)
		if err != nil {
			return err
		}
		if len(results) == 0 && group.Description == nil {
			continue
		}
		record := domain.AssignmentRecord{Results: results}
		if record.Description, err = e.renderOptional(ctx, tx, group.Description); err != nil {
			return err
		}
		if s.local.staleRecs {
			s.local.records = nil
			s.local.staleRecs = false
		}
		s.local.records = append(s.local.records, record)
	}
	s.local.pending = nil

	if dest := s.local.navigation; dest != "" {
		if loc, ok := e.model.Location(dest); ok {
			s.local.location = loc
			if err := tx.SetLocation(ctx, loc.Name); err != nil {
				return fmt.Errorf("set location %q: %w", loc.Name, err)
			}
		}
	}
	s.local.navigation = ""

	if err := tx.CommitStorylet(ctx); err != nil {
		return fmt.Errorf("commit storylet: %w", err)
	}
	s.local.storylet = nil
	s.local.choices = nil

	return s.pickAmbient(ctx, tx)
}

// pickAmbient draws an eligible unlabelled storylet that has not been picked
// while it stayed eligible. Nothing is picked when every candidate is recent.
func (s *Session) pickAmbient(ctx context.Context, tx ports.Transaction) error {
	storylets := s.engine.model.Storylets

	var candidates []int
	for i := range storylets {
		if storylets[i].Listed() {
			continue
		}
		ok, err := s.eligible(ctx, tx, storylets[i].Condition)
		if err != nil {
			return err
		}
		if ok {
			candidates = append(candidates, i)
		}
	}

	s.local.recent = slices.DeleteFunc(s.local.recent, func(i int) bool {
		return !slices.Contains(candidates, i)
	})
	candidates = slices.DeleteFunc(candidates, func(i int) bool {
		return slices.Contains(s.local.recent, i)
	})
	if len(candidates) == 0 {
		return nil
	}

	index := candidates[s.engine.rand.IntN(len(candidates))]
	s.local.recent = append(s.local.recent, index)
	return s.enter(ctx, tx, &storylets[index], true)
}

func (s *Session) enter(ctx context.Context, tx ports.Transaction, st *domain.Storylet, ambient bool) error {
	s.local.storylet = st
	if st.Name != "" {
		if err := tx.SetStorylet(ctx, st.Name); err != nil {
			return fmt.Errorf("set storylet %q: %w", st.Name, err)
		}
	}
	if hook := s.engine.hooks.OnStoryletEnter; hook != nil {
		hook(ctx, &domain.StoryletEvent{
			EventBase: domain.NewEventBase(domain.EventStoryletEnter),
			Storylet:  st.Name,
			Ambient:   ambient,
		})
	}
	return nil
}

func (s *Session) chose(ctx context.Context, id int, storylet string) {
	if hook := s.engine.hooks.OnChoice; hook != nil {
		hook(ctx, &domain.ChoiceEvent{
			EventBase: domain.NewEventBase(domain.EventChoice),
			ID:        id,
			Storylet:  storylet,
		})
	}
}

func (s *Session) eligible(ctx context.Context, tx ports.Transaction, condition *domain.Expression) (bool, error) {
	if condition == nil {
		return true, nil
	}
	return s.engine.Logical(ctx, tx, *condition)
}

// gather collects the choices to offer, group by group: eligible choices,
// shuffled when the group asks for it, capped to its limit.
func (s *Session) gather(ctx context.Context, tx ports.Transaction, c *domain.Choices) ([]*domain.Choice, error) {
	e := s.engine
	var out []*domain.Choice
	for gi := range c.Groups {
		group := &c.Groups[gi]

		var choices []*domain.Choice
		for i := range group.Choices {
			ok, err := s.eligible(ctx, tx, group.Choices[i].Condition)
			if err != nil {
				return nil, err
			}
			if ok {
				choices = append(choices, &group.Choices[i])
			}
		}

		if group.Shuffle != nil {
			shuffle, err := e.Logical(ctx, tx, *group.Shuffle)
			if err != nil {
				return nil, err
			}
			if shuffle {
				e.rand.Shuffle(len(choices), func(i, j int) {
					choices[i], choices[j] = choices[j], choices[i]
				})
			}
		}

		if group.Limit != nil {
			limit, err := e.Numeric(ctx, tx, *group.Limit)
			if err != nil {
				return nil, err
			}
			if limit > 0 && limit < len(choices) {
				choices = choices[:limit]
			}
		}

		out = append(out, choices...)
	}
	return out, nil
}

func (s *Session) choiceViews(ctx context.Context, tx ports.Transaction, choices []*domain.Choice) ([]domain.ChoiceView, error) {
	views := make([]domain.ChoiceView, 0, len(choices))
	for i, c := range choices {
		view, err := s.view(ctx, tx, i, c.Label, c.Description, c.Icon)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// listed builds the menu of labelled storylets whose conditions hold.
// Their ids are positions in the content's storylet list.
func (s *Session) listed(ctx context.Context, tx ports.Transaction) ([]domain.ChoiceView, error) {
	var views []domain.ChoiceView
	for i := range s.engine.model.Storylets {
		st := &s.engine.model.Storylets[i]
		if !st.Listed() {
			continue
		}
		ok, err := s.eligible(ctx, tx, st.Condition)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		view, err := s.view(ctx, tx, i, st.Label, st.Description, st.Icon)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Session) view(ctx context.Context, tx ports.Transaction, id int, label, description domain.Template, icon *domain.Conditional[string]) (domain.ChoiceView, error) {
	e := s.engine
	view := domain.ChoiceView{ID: id}
	var err error
	if view.Label, err = e.Render(ctx, tx, label); err != nil {
		return view, err
	}
	if view.Description, err = e.renderOptional(ctx, tx, description); err != nil {
		return view, err
	}
	view.Icon, err = e.renderIcon(ctx, tx, icon)
	return view, err
}

func (s *Session) writeBody(body domain.Text) {
	s.freshen()
	s.local.body = append(s.local.body, body...)
}

// freshen wipes buffers that were already returned.
func (s *Session) freshen() {
	if s.local.staleBody {
		s.local.body = nil
		s.local.staleBody = false
	}
	if s.local.staleRecs {
		s.local.records = nil
		s.local.staleRecs = false
	}
}

// state snapshots what the player should see. With no choices to offer it
// carries the generic continue affordance.
func (s *Session) state(ctx context.Context, tx ports.Transaction, choices []domain.ChoiceView, prompt domain.Template) (*domain.SessionState, error) {
	e := s.engine
	state := &domain.SessionState{}

	if loc := s.local.location; loc != nil {
		view := &domain.LocationView{}
		var err error
		if view.Label, err = e.Render(ctx, tx, loc.Label); err != nil {
			return nil, err
		}
		if view.Description, err = e.renderOptional(ctx, tx, loc.Description); err != nil {
			return nil, err
		}
		state.Location = view
	}

	if st := s.local.storylet; st != nil {
		label, err := e.renderOptional(ctx, tx, st.Label)
		if err != nil {
			return nil, err
		}
		state.Storylet = &domain.StoryletView{Label: label}
	}

	if len(s.local.body) > 0 {
		state.Body = slices.Clone(s.local.body)
	}
	if len(s.local.records) > 0 {
		state.Assignments = slices.Clone(s.local.records)
	}

	if len(choices) > 0 {
		state.Choices = choices
	} else {
		state.Continue = &domain.Continue{}
	}

	var err error
	if state.Prompt, err = e.renderOptional(ctx, tx, prompt); err != nil {
		return nil, err
	}

	s.local.staleBody = true
	s.local.staleRecs = true
	return state, nil
}
