package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pavanmanishd/fixedblock"
	"github.com/spf13/cobra"
)

var (
	layoutBlocks    int
	layoutBlockSize int
	layoutWidth     int
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().IntVar(&layoutBlocks, "blocks", 8, "Blocks in the sample arena")
	cmd.Flags().IntVar(&layoutBlockSize, "block-size", 16, "Block size of the sample arena")
	cmd.Flags().IntVar(&layoutWidth, "width", 16, "Index width of the sample arena: 8, 16 or 32")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show index-width limits and a sample free list",
		Long: `The layout command prints, for each index width, the link size, the
end-of-list sentinel and the largest block count. It then binds a small arena
and prints its free-list chain and head words.

Example:
  blockstress layout
  blockstress layout --blocks 4 --width 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.OutOrStdout(), layoutWidth, layoutBlockSize, layoutBlocks)
		},
	}
	return cmd
}

// WidthInfo describes one index width.
type WidthInfo struct {
	Bits         int    `json:"bits"`
	LinkBytes    int    `json:"linkBytes"`
	HeadBits     int    `json:"headIndexBits"`
	InvalidIndex uint32 `json:"invalidIndex"`
	MaxBlocks    int    `json:"maxBlocks"`
}

func widthInfo[I fixedblock.Index]() WidthInfo {
	return WidthInfo{
		Bits:         8 * fixedblock.IndexSize[I](),
		LinkBytes:    fixedblock.IndexSize[I](),
		HeadBits:     fixedblock.IndexBits[I](),
		InvalidIndex: fixedblock.InvalidIndex[I](),
		MaxBlocks:    fixedblock.MaxBlocks[I](),
	}
}

// HeadInfo is a decoded head word.
type HeadInfo struct {
	Word  uint32 `json:"word"`
	Tag   uint8  `json:"tag"`
	Index uint32 `json:"index"`
}

func headInfo(word uint32) HeadInfo {
	tag, idx := fixedblock.UnpackHead(word)
	return HeadInfo{Word: word, Tag: tag, Index: idx}
}

// Layout is the report printed by the layout command.
type Layout struct {
	Widths     []WidthInfo `json:"widths"`
	SampleBits int         `json:"sampleBits"`
	BlockSize  int         `json:"blockSize"`
	Blocks     int         `json:"blocks"`
	Chain      []int       `json:"chain"`
	Heads      []HeadInfo  `json:"heads"`
}

// sampleLayout binds a fresh arena and records the order in which blocks come
// off the free list and the head word after each pop.
func sampleLayout[I fixedblock.Index](blockSize, numBlocks int) ([]int, []HeadInfo, error) {
	a, err := fixedblock.New[I](fixedblock.NewArena(fixedblock.ArenaSize(blockSize, numBlocks)),
		blockSize, numBlocks)
	if err != nil {
		return nil, nil, err
	}
	chain := make([]int, 0, numBlocks)
	heads := []HeadInfo{headInfo(a.HeadWord())}
	for p := a.AllocatePointer(blockSize); p != nil; p = a.AllocatePointer(blockSize) {
		chain = append(chain, a.Index(blockSize, p))
		heads = append(heads, headInfo(a.HeadWord()))
	}
	return chain, heads, nil
}

func buildLayout(width, blockSize, numBlocks int) (*Layout, error) {
	l := &Layout{
		Widths: []WidthInfo{
			widthInfo[uint8](),
			widthInfo[uint16](),
			widthInfo[uint32](),
		},
		SampleBits: width,
		BlockSize:  blockSize,
		Blocks:     numBlocks,
	}
	var err error
	switch width {
	case 8:
		l.Chain, l.Heads, err = sampleLayout[uint8](blockSize, numBlocks)
	case 16:
		l.Chain, l.Heads, err = sampleLayout[uint16](blockSize, numBlocks)
	case 32:
		l.Chain, l.Heads, err = sampleLayout[uint32](blockSize, numBlocks)
	default:
		err = fmt.Errorf("index width must be 8, 16 or 32, got %d", width)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func runLayout(w io.Writer, width, blockSize, numBlocks int) error {
	l, err := buildLayout(width, blockSize, numBlocks)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, l)
	}

	fmt.Fprintf(w, "%-6s  %-5s  %-9s  %-10s  %s\n", "WIDTH", "LINK", "HEAD BITS", "SENTINEL", "MAX BLOCKS")
	for _, wi := range l.Widths {
		fmt.Fprintf(w, "%-6d  %-5d  %-9d  %#-10x  %d\n",
			wi.Bits, wi.LinkBytes, wi.HeadBits, wi.InvalidIndex, wi.MaxBlocks)
	}

	fmt.Fprintf(w, "\nSample: %d blocks of %d bytes, %d-bit indices\n", l.Blocks, l.BlockSize, l.SampleBits)
	parts := make([]string, 0, len(l.Chain)+1)
	for _, idx := range l.Chain {
		parts = append(parts, fmt.Sprint(idx))
	}
	parts = append(parts, "end")
	fmt.Fprintf(w, "Chain:  %s\n", strings.Join(parts, " -> "))
	for i, h := range l.Heads {
		fmt.Fprintf(w, "Head %-3d %#010x  tag=%-3d index=%#x\n", i, h.Word, h.Tag, h.Index)
	}
	return nil
}
