package huffman

import (
	"container/heap"
	"slices"

	"github.com/adilg123/rle-huffman-lzw/internal/symbol"
)

// FrequencyTable maps each distinct symbol to the number of times it occurs.
type FrequencyTable map[symbol.Symbol]int

// Tree is a Huffman tree: a Leaf, or a Node with exactly two children.
type Tree interface {
	Weight() int
	getId() int
}

type Leaf struct {
	Symbol symbol.Symbol
	freq   int
	id     int
}

type Node struct {
	Left, Right Tree
	freq        int
	id          int
}

func (leaf Leaf) Weight() int {
	return leaf.freq
}

func (leaf Leaf) getId() int {
	return leaf.id
}

func (node Node) Weight() int {
	return node.freq
}

func (node Node) getId() int {
	return node.id
}

type huffmanHeap []Tree

func (hub *huffmanHeap) Push(item any) {
	*hub = append(*hub, item.(Tree))
}

func (hub *huffmanHeap) Pop() any {
	popped := (*hub)[len(*hub)-1]
	(*hub) = (*hub)[:len(*hub)-1]
	return popped
}

func (hub huffmanHeap) Len() int {
	return len(hub)
}

// Less orders by weight, then by creation order. Leaves are created in
// ascending symbol order before any merge, so the same frequency table always
// produces the same tree.
func (hub huffmanHeap) Less(i, j int) bool {
	if hub[i].Weight() != hub[j].Weight() {
		return hub[i].Weight() < hub[j].Weight()
	}
	return hub[i].getId() < hub[j].getId()
}

func (hub huffmanHeap) Swap(i, j int) {
	hub[i], hub[j] = hub[j], hub[i]
}

// FrequencyTableOf counts every symbol of the input.
func FrequencyTableOf(symbols []symbol.Symbol) FrequencyTable {
	freq := make(FrequencyTable)
	for _, s := range symbols {
		freq[s]++
	}
	return freq
}

// BuildTree repeatedly merges the two lightest trees until one is left. The
// first tree popped becomes the left child. It returns nil for an empty table
// and a lone Leaf when there is only one distinct symbol.
func BuildTree(freq FrequencyTable) Tree {
	if len(freq) == 0 {
		return nil
	}

	keys := make([]symbol.Symbol, 0, len(freq))
	for s := range freq {
		keys = append(keys, s)
	}
	slices.Sort(keys)

	treehub := make(huffmanHeap, 0, len(keys))
	monoId := 0
	for _, key := range keys {
		treehub = append(treehub, Leaf{
			Symbol: key,
			freq:   freq[key],
			id:     monoId,
		})
		monoId++
	}
	heap.Init(&treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(&treehub).(Tree)
		y := heap.Pop(&treehub).(Tree)
		heap.Push(&treehub, Node{
			Left:  x,
			Right: y,
			freq:  x.Weight() + y.Weight(),
			id:    monoId,
		})
		monoId++
	}
	return heap.Pop(&treehub).(Tree)
}

// BuildCodes walks the tree depth first, appending '0' for every left edge and
// '1' for every right edge. A tree that is a single leaf gets the code "0".
func BuildCodes(tree Tree) CodeTable {
	codes := make(CodeTable)
	if tree == nil {
		return codes
	}
	if leaf, ok := tree.(Leaf); ok {
		codes[leaf.Symbol] = "0"
		return codes
	}

	var walk func(Tree, []byte)
	walk = func(tree Tree, prefix []byte) {
		switch node := tree.(type) {
		case Leaf:
			codes[node.Symbol] = BitString(prefix)
		case Node:
			walk(node.Left, append(prefix, '0'))
			walk(node.Right, append(prefix, '1'))
		}
	}
	walk(tree, make([]byte, 0, 32))
	return codes
}
