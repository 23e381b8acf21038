package resolver

import "fmt"

// LinearizeC3 computes the C3 linearisation of a contract given its direct
// base names in declaration order and a lookup from contract name to that
// contract's own (already-linearised) MRO. The result begins with name
// itself and ends with the common root, matching Python's MRO algorithm,
// the textbook reference for C3 (spec 3.2: "Bases are linearised in C3
// order").
func LinearizeC3(name string, directBases []string, mroOf func(string) []string) ([]string, error) {
	if len(directBases) == 0 {
		return []string{name}, nil
	}

	sequences := make([][]string, 0, len(directBases)+1)
	for _, b := range directBases {
		sequences = append(sequences, mroOf(b))
	}
	sequences = append(sequences, append([]string{}, directBases...))

	merged := []string{name}
	for {
		sequences = dropEmpty(sequences)
		if len(sequences) == 0 {
			return merged, nil
		}
		var head string
		found := false
		for _, seq := range sequences {
			candidate := seq[0]
			if !appearsInTail(candidate, sequences) {
				head = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("C3 linearisation of %q failed: inconsistent base order among %v", name, directBases)
		}
		merged = append(merged, head)
		for i, seq := range sequences {
			sequences[i] = removeHead(seq, head)
		}
	}
}

func dropEmpty(seqs [][]string) [][]string {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func appearsInTail(name string, seqs [][]string) bool {
	for _, seq := range seqs {
		for _, n := range seq[1:] {
			if n == name {
				return true
			}
		}
	}
	return false
}

func removeHead(seq []string, head string) []string {
	if len(seq) > 0 && seq[0] == head {
		return seq[1:]
	}
	return seq
}
