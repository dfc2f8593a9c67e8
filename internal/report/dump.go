package report

import (
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
	"github.com/google/uuid"
)

// encSliceInt and decSliceInt mirror rezi's EncSliceString/DecSliceString
// shape (a byte-count prefix followed by each EncInt-encoded element) since
// rezi itself does not ship a []int helper.
func encSliceInt(sl []int) []byte {
	if sl == nil {
		return rezi.EncInt(-1)
	}

	enc := make([]byte, 0)
	for i := range sl {
		enc = append(enc, rezi.EncInt(sl[i])...)
	}

	enc = append(rezi.EncInt(len(enc)), enc...)
	return enc
}

func decSliceInt(data []byte) ([]int, int, error) {
	var totalConsumed int

	toConsume, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decode byte count: %w", err)
	}
	data = data[n:]
	totalConsumed += n

	if toConsume == 0 {
		return []int{}, totalConsumed, nil
	} else if toConsume == -1 {
		return nil, totalConsumed, nil
	}

	if len(data) < toConsume {
		return nil, 0, fmt.Errorf("unexpected EOF")
	}

	sl := []int{}

	var i int
	for i < toConsume {
		v, n, err := rezi.DecInt(data)
		if err != nil {
			return nil, totalConsumed, fmt.Errorf("decode item: %w", err)
		}
		totalConsumed += n
		i += n
		data = data[n:]

		sl = append(sl, v)
	}

	return sl, totalConsumed, nil
}

// ItemDump is a flattened lr0.Item, suitable for rezi encoding. rezi encodes
// a struct only through encoding.BinaryMarshaler/BinaryUnmarshaler, so this
// and every other dump type below implements both by hand.
type ItemDump struct {
	Prod int
	Dot  int
}

// MarshalBinary implements encoding.BinaryMarshaler for rezi encoding.
func (it *ItemDump) MarshalBinary() ([]byte, error) {
	enc := make([]byte, 0)
	enc = append(enc, rezi.EncInt(it.Prod)...)
	enc = append(enc, rezi.EncInt(it.Dot)...)
	return enc, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for rezi decoding.
func (it *ItemDump) UnmarshalBinary(data []byte) error {
	prod, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Prod: %w", err)
	}
	data = data[n:]

	dot, _, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Dot: %w", err)
	}

	it.Prod = prod
	it.Dot = dot
	return nil
}

// StateDump is a flattened lr0.State.
type StateDump struct {
	ID          int
	Items       []ItemDump
	Transitions []int
	Access      int
	Accept      bool
}

// MarshalBinary implements encoding.BinaryMarshaler for rezi encoding.
func (sd *StateDump) MarshalBinary() ([]byte, error) {
	itemPtrs := make([]*ItemDump, len(sd.Items))
	for i := range sd.Items {
		itemPtrs[i] = &sd.Items[i]
	}

	enc := make([]byte, 0)
	enc = append(enc, rezi.EncInt(sd.ID)...)
	enc = append(enc, rezi.EncSliceBinary(itemPtrs)...)
	enc = append(enc, encSliceInt(sd.Transitions)...)
	enc = append(enc, rezi.EncInt(sd.Access)...)
	enc = append(enc, rezi.EncBool(sd.Accept)...)
	return enc, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for rezi decoding.
func (sd *StateDump) UnmarshalBinary(data []byte) error {
	id, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode ID: %w", err)
	}
	data = data[n:]

	itemPtrs, n, err := rezi.DecSliceBinary[*ItemDump](data)
	if err != nil {
		return fmt.Errorf("decode Items: %w", err)
	}
	data = data[n:]

	transitions, n, err := decSliceInt(data)
	if err != nil {
		return fmt.Errorf("decode Transitions: %w", err)
	}
	data = data[n:]

	access, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Access: %w", err)
	}
	data = data[n:]

	accept, _, err := rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("decode Accept: %w", err)
	}

	var items []ItemDump
	for _, ip := range itemPtrs {
		items = append(items, *ip)
	}

	sd.ID = id
	sd.Items = items
	sd.Transitions = transitions
	sd.Access = access
	sd.Accept = accept
	return nil
}

// TransDump is a flattened lr0.Trans.
type TransDump struct {
	ID  int
	Src int
	Dst int
	Sym int
}

// MarshalBinary implements encoding.BinaryMarshaler for rezi encoding.
func (td *TransDump) MarshalBinary() ([]byte, error) {
	enc := make([]byte, 0)
	enc = append(enc, rezi.EncInt(td.ID)...)
	enc = append(enc, rezi.EncInt(td.Src)...)
	enc = append(enc, rezi.EncInt(td.Dst)...)
	enc = append(enc, rezi.EncInt(td.Sym)...)
	return enc, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for rezi decoding.
func (td *TransDump) UnmarshalBinary(data []byte) error {
	id, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode ID: %w", err)
	}
	data = data[n:]

	src, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Src: %w", err)
	}
	data = data[n:]

	dst, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Dst: %w", err)
	}
	data = data[n:]

	sym, _, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Sym: %w", err)
	}

	td.ID = id
	td.Src = src
	td.Dst = dst
	td.Sym = sym
	return nil
}

// ReductionDump is a flattened lookahead.Reduction; Lookahead is expanded
// to its terminal code elements since util.Bitset isn't itself a rezi
// value type.
type ReductionDump struct {
	State     int
	Prod      int
	Lookahead []int
}

// MarshalBinary implements encoding.BinaryMarshaler for rezi encoding.
func (rd *ReductionDump) MarshalBinary() ([]byte, error) {
	enc := make([]byte, 0)
	enc = append(enc, rezi.EncInt(rd.State)...)
	enc = append(enc, rezi.EncInt(rd.Prod)...)
	enc = append(enc, encSliceInt(rd.Lookahead)...)
	return enc, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for rezi decoding.
func (rd *ReductionDump) UnmarshalBinary(data []byte) error {
	state, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode State: %w", err)
	}
	data = data[n:]

	prod, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode Prod: %w", err)
	}
	data = data[n:]

	lookahead, _, err := decSliceInt(data)
	if err != nil {
		return fmt.Errorf("decode Lookahead: %w", err)
	}

	rd.State = state
	rd.Prod = prod
	rd.Lookahead = lookahead
	return nil
}

// AutomatonDump is the complete diagnostic snapshot written by
// --dump-automaton. RunID tags the file with a fresh UUID so repeated
// invocations against the same path (or a backup directory) never collide,
// per SPEC_FULL.md §3's uuid wiring note; it has no bearing on the
// deterministic compiled output.
type AutomatonDump struct {
	RunID       string
	States      []StateDump
	Transitions []TransDump
	Reductions  []ReductionDump
}

// MarshalBinary implements encoding.BinaryMarshaler for rezi encoding.
func (dump *AutomatonDump) MarshalBinary() ([]byte, error) {
	statePtrs := make([]*StateDump, len(dump.States))
	for i := range dump.States {
		statePtrs[i] = &dump.States[i]
	}

	transPtrs := make([]*TransDump, len(dump.Transitions))
	for i := range dump.Transitions {
		transPtrs[i] = &dump.Transitions[i]
	}

	reductionPtrs := make([]*ReductionDump, len(dump.Reductions))
	for i := range dump.Reductions {
		reductionPtrs[i] = &dump.Reductions[i]
	}

	enc := make([]byte, 0)
	enc = append(enc, rezi.EncString(dump.RunID)...)
	enc = append(enc, rezi.EncSliceBinary(statePtrs)...)
	enc = append(enc, rezi.EncSliceBinary(transPtrs)...)
	enc = append(enc, rezi.EncSliceBinary(reductionPtrs)...)
	return enc, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for rezi decoding.
func (dump *AutomatonDump) UnmarshalBinary(data []byte) error {
	runID, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("decode RunID: %w", err)
	}
	data = data[n:]

	statePtrs, n, err := rezi.DecSliceBinary[*StateDump](data)
	if err != nil {
		return fmt.Errorf("decode States: %w", err)
	}
	data = data[n:]

	transPtrs, n, err := rezi.DecSliceBinary[*TransDump](data)
	if err != nil {
		return fmt.Errorf("decode Transitions: %w", err)
	}
	data = data[n:]

	reductionPtrs, _, err := rezi.DecSliceBinary[*ReductionDump](data)
	if err != nil {
		return fmt.Errorf("decode Reductions: %w", err)
	}

	var states []StateDump
	for _, sp := range statePtrs {
		states = append(states, *sp)
	}

	var transitions []TransDump
	for _, tp := range transPtrs {
		transitions = append(transitions, *tp)
	}

	var reductions []ReductionDump
	for _, rp := range reductionPtrs {
		reductions = append(reductions, *rp)
	}

	dump.RunID = runID
	dump.States = states
	dump.Transitions = transitions
	dump.Reductions = reductions
	return nil
}

// BuildDump flattens dfa and res into a rezi-encodable snapshot, minting a
// fresh run id.
func BuildDump(dfa *lr0.Automaton, res *lookahead.Result) AutomatonDump {
	dump := AutomatonDump{RunID: uuid.New().String()}

	for _, st := range dfa.States {
		sd := StateDump{
			ID:          st.ID,
			Transitions: append([]int(nil), st.Transitions...),
			Access:      st.Access,
			Accept:      st.Accept,
		}
		for _, it := range st.Items {
			sd.Items = append(sd.Items, ItemDump{Prod: it.Prod, Dot: it.Dot})
		}
		dump.States = append(dump.States, sd)
	}

	for _, tr := range dfa.Transitions {
		dump.Transitions = append(dump.Transitions, TransDump{
			ID: tr.ID, Src: tr.Src, Dst: tr.Dst, Sym: tr.Sym,
		})
	}

	for _, rd := range res.Reductions {
		dump.Reductions = append(dump.Reductions, ReductionDump{
			State: rd.State, Prod: rd.Prod, Lookahead: rd.Lookahead.Elements(),
		})
	}

	return dump
}

// WriteDump rezi-encodes dump and writes it to path, exactly the
// EncBinary-then-write shape sqlite.go's convertToDB_GameStatePtr uses
// (minus the base64 step, since this goes straight to a file rather than a
// DB text column).
func WriteDump(path string, dump AutomatonDump) error {
	data := rezi.EncBinary(&dump)
	return os.WriteFile(path, data, 0644)
}

// ReadDump decodes a file previously written by WriteDump. Exposed only for
// tests and for operator inspection tooling; the compiler itself never
// reads a dump back in (spec.md §6.3: "Persisted state: None").
func ReadDump(path string) (AutomatonDump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AutomatonDump{}, err
	}
	var dump AutomatonDump
	if _, err := rezi.DecBinary(data, &dump); err != nil {
		return AutomatonDump{}, err
	}
	return dump, nil
}
