/*
Package runner implements the play loop and I/O orchestration for an Arbor session.

It acts as the bridge between a Session and the outside world: it renders
each SessionState through a pluggable IOHandler, reads the player's command
and turns it into Continue, Choose or Reset calls.

# Key Components

  - Runner: the loop. It stops on end of input, "quit", or an interrupt.
  - IOHandler: decouples how states are shown and commands are read.
  - TextHandler: interactive terminal play, optionally with a rich ContentRenderer.
  - JSONHandler: one JSON state per line out, one command per line in.

# Usage

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx, eng.Begin(store)); err != nil {
		log.Fatal(err)
	}
*/
package runner
