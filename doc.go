/*
Package arbor plays storylet-based interactive fiction.

Content is a static model of qualities (numeric stats, optionally backed by a
ladder of named rungs), locations and storylets (scenes with conditions,
effects and choices). A Session evaluates that content against one player's
state and returns rendered text and the choices on offer.

# Concept

Player state lives in a ports.Store. Every Continue or Choose call runs inside
exactly one store transaction: reads and writes of concurrent calls never
interleave, and a failed call leaves both the store and the session as they
were. Stores come in-memory (pkg/adapters/memory) or persisting to a
key-value slot (pkg/persistence) backed by files, Redis or SQLite.

Storylets with a label are listed: they form the menu offered when nothing
else is happening. Storylets without one are ambient: whenever no storylet
is active, an eligible ambient storylet that has not been shown since it
became eligible is picked at random.

# Usage

	eng, err := arbor.Load("story.yaml", arbor.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	session := eng.Begin(memory.NewStore())
	state, err := session.Continue(ctx)
	for err == nil {
		// Render state.Body, state.Assignments and state.Choices...
		if state.Continue != nil {
			state, err = session.Continue(ctx)
		} else {
			state, err = session.Choose(ctx, state.Choices[0].ID)
		}
	}

The pkg/runner package provides a ready-made loop over text or JSON I/O.
*/
package arbor
