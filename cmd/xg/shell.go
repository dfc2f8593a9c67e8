package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/internal/gdesc"
	"github.com/dekarrin/xg/internal/report"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
	"github.com/dekarrin/xg/sentence"
)

// shell is the interactive shell's state (started by "xg --shell"): a loaded (possibly nil)
// grammar plus whatever the LR(0)/lookahead passes last produced for it.
// Grounded on dekarrin-tunaq/cmd/tqi's engine.RunUntilQuit loop shape and
// internal/input's readline wrapper, adapted from a fixed single-purpose
// game REPL into a small command dispatcher for inspecting a grammar
// without recompiling it from scratch after every change.
type shell struct {
	rl  *readline.Instance
	g   *grammar.Grammar
	dfa *lr0.Automaton
	la  *lookahead.Result
	log *lookahead.ConflictLog
}

// runShell starts the interactive shell on stdin/stdout until the user
// types "quit" or sends EOF.
func runShell() error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "xg> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	sh := &shell{rl: rl}
	fmt.Println("xg interactive shell. Type \"help\" for commands, \"quit\" to exit.")

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			fmt.Println("goodbye")
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			fmt.Println("goodbye")
			return nil
		}

		if err := sh.dispatch(cmd, args); err != nil {
			fmt.Println("error: " + err.Error())
		}
	}
}

func (sh *shell) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		sh.printHelp()
	case "load":
		return sh.cmdLoad(args)
	case "first":
		return sh.cmdFirst(args)
	case "follow":
		return sh.cmdFollow(args)
	case "table":
		return sh.cmdTable()
	case "conflicts":
		return sh.cmdConflicts()
	case "random":
		return sh.cmdRandom(args)
	default:
		fmt.Printf("unknown command %q; type \"help\" for a list\n", cmd)
	}
	return nil
}

func (sh *shell) printHelp() {
	fmt.Println(strings.TrimLeft(`
commands:
  load FILE        load and finalize a grammar description, build its LALR(1) table
  first SYM        print FIRST(SYM)
  follow SYM       print FOLLOW(SYM)
  table            print the ACTION/GOTO table of the loaded grammar
  conflicts        print the conflict resolution log of the loaded grammar
  random [BUDGET]  draw one random sentence (default budget 64)
  quit             exit the shell
`, "\n"))
}

func (sh *shell) cmdLoad(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load FILE")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := gdesc.Load(f)
	if err != nil {
		return err
	}
	if err := g.Finalize(); err != nil {
		return err
	}
	g.ComputeFirst()
	g.ComputeFollow()

	dfa := lr0.Build(g)
	la := lookahead.ComputeLALR1(g, dfa)
	log := lookahead.Resolve(g, dfa, la)

	sh.g, sh.dfa, sh.la, sh.log = g, dfa, la, log
	fmt.Printf("loaded %q: %d states, %d transitions\n", args[0], len(dfa.States), len(dfa.Transitions))
	return nil
}

func (sh *shell) requireGrammar() error {
	if sh.g == nil {
		return fmt.Errorf("no grammar loaded; use \"load FILE\" first")
	}
	return nil
}

func (sh *shell) resolveSymbol(name string) (int, error) {
	for _, code := range sh.g.AllSymbols() {
		if sh.g.GetSymbol(code).DisplayName() == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", name)
}

func (sh *shell) cmdFirst(args []string) error {
	if err := sh.requireGrammar(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: first SYM")
	}
	code, err := sh.resolveSymbol(args[0])
	if err != nil {
		return err
	}
	fmt.Println(renderTerminalSet(sh.g, sh.g.GetSymbol(code).First.Elements()))
	return nil
}

func (sh *shell) cmdFollow(args []string) error {
	if err := sh.requireGrammar(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: follow SYM")
	}
	code, err := sh.resolveSymbol(args[0])
	if err != nil {
		return err
	}
	fmt.Println(renderTerminalSet(sh.g, sh.g.GetSymbol(code).Follow.Elements()))
	return nil
}

func (sh *shell) cmdTable() error {
	if err := sh.requireGrammar(); err != nil {
		return err
	}
	fmt.Println(report.ActionGotoTable(sh.g, sh.dfa, sh.la))
	return nil
}

func (sh *shell) cmdConflicts() error {
	if err := sh.requireGrammar(); err != nil {
		return err
	}
	fmt.Println(report.ConflictLogText(sh.g, sh.log))
	return nil
}

func (sh *shell) cmdRandom(args []string) error {
	if err := sh.requireGrammar(); err != nil {
		return err
	}
	budget := 64
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("budget must be an integer: %w", err)
		}
		budget = n
	}

	gen := sentence.New(sh.g, nil)
	s, err := gen.Generate(budget)
	if err != nil {
		return err
	}
	fmt.Print(gen.String(s))
	return nil
}

func renderTerminalSet(g *grammar.Grammar, codes []int) string {
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = g.GetSymbol(c).DisplayName()
	}
	return "{ " + strings.Join(names, ", ") + " }"
}
