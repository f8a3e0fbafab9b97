package core

import "fmt"

func errNotALeaf(ref Ref) error {
	return fmt.Errorf("node at 0x%x is an inner B+Tree node, not a leaf", uint64(ref))
}
