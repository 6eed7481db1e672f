// Package bot drives autonomous players.
//
// A Service looks at a game situation and proposes prioritized decisions:
// roll, buy, upgrade, skip or end the turn. Buy and upgrade priorities are
// nudged by the fuzzy cash policy. A Processor executes those decisions for
// the current bot one at a time, pausing for each decision's delay on a
// quartz clock so tests can run without sleeping. Pending decisions are
// dropped the moment the turn they were planned for ends.
//
//	proc := bot.NewProcessor(g, bot.NewService(bot.NoDelays()))
//	if err := bot.RunGame(ctx, proc, 200); err != nil {
//	    return err
//	}
package bot
