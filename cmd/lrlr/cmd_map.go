package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Inspect the land graph, with the turn's weaves applied",
}

var mapAdjacencyCmd = &cobra.Command{
	Use:   "adjacency",
	Short: "Print every land's neighbours as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := turn.LoadBoard(mapPath, turnOptions(false, false))
		if err != nil {
			return err
		}
		adj := make(map[string][]string, len(m.Keys()))
		for _, key := range m.Keys() {
			l, _ := m.Land(key)
			links := make([]string, 0, len(l.Links()))
			for _, link := range l.Links() {
				links = append(links, link.Land.Key)
			}
			sort.Strings(links)
			adj[key] = links
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(adj); err != nil {
			return err
		}
		return enc.Close()
	},
}

var mapPathCmd = &cobra.Command{
	Use:   "path FROM TO",
	Short: "Print the shortest path between two lands",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := turn.LoadBoard(mapPath, turnOptions(false, false))
		if err != nil {
			return err
		}
		src, ok := m.Land(args[0])
		if !ok {
			return &board.UnknownLandError{Key: args[0]}
		}
		if _, ok := m.Land(args[1]); !ok {
			return &board.UnknownLandError{Key: args[1]}
		}
		dist, prev, err := board.Distances(src, nil)
		if err != nil {
			return err
		}
		path, ok := board.Path(prev, args[0], args[1])
		if !ok {
			return fmt.Errorf("no path from %s to %s", args[0], args[1])
		}
		steps := make([]string, len(path))
		for i, key := range path {
			steps[i] = fmt.Sprintf("%s(%d)", key, dist[key])
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(steps, " -> "))
		return nil
	},
}

var mapCoastDistanceCmd = &cobra.Command{
	Use:   "coast-distance LAND...",
	Short: "Group coastal lands by distance from the nearest given land",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := turn.LoadBoard(mapPath, turnOptions(false, false))
		if err != nil {
			return err
		}
		srcs := make([]*board.Land, 0, len(args))
		for _, key := range args {
			l, ok := m.Land(key)
			if !ok {
				return &board.UnknownLandError{Key: key}
			}
			srcs = append(srcs, l)
		}
		dist, err := board.NearestDistances(srcs)
		if err != nil {
			return err
		}

		byDist := make(map[int][]string)
		for key, d := range dist {
			if l, _ := m.Land(key); l.Coastal {
				byDist[d] = append(byDist[d], key)
			}
		}
		ds := make([]int, 0, len(byDist))
		for d := range byDist {
			ds = append(ds, d)
		}
		sort.Ints(ds)
		for _, d := range ds {
			keys := byDist[d]
			sort.Strings(keys)
			fmt.Fprintf(cmd.OutOrStdout(), "%d [%s]\n", d, strings.Join(keys, ", "))
		}
		return nil
	},
}

func init() {
	mapCmd.AddCommand(mapAdjacencyCmd)
	mapCmd.AddCommand(mapPathCmd)
	mapCmd.AddCommand(mapCoastDistanceCmd)
}
