package main

import (
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/stellaxu/DEV/pkg/data"
)

var (
	indexFlag = &cli.StringSliceFlag{
		Name:     "index",
		Usage:    "Dataset list file with \"path label\" lines (repeatable)",
		Required: true,
	}

	classesCmd = &cli.Command{
		Name:    "classes",
		Aliases: []string{"c"},
		Usage:   "Count the samples of every class in dataset list files",
		Action:  cmdClasses,
		Flags: []cli.Flag{
			indexFlag,
		},
	}
)

type classCount struct {
	Class int `json:"class" yaml:"class"`
	Count int `json:"count" yaml:"count"`
}

type indexClasses struct {
	File    string       `json:"file" yaml:"file"`
	Classes []classCount `json:"classes" yaml:"classes"`
}

func cmdClasses(c *cli.Context) error {
	var out []indexClasses
	for _, path := range c.StringSlice(indexFlag.Name) {
		entries, err := data.ReadIndex(path)
		if err != nil {
			return err
		}
		ic := indexClasses{File: path}
		for label, es := range data.GroupIndex(entries) {
			ic.Classes = append(ic.Classes, classCount{Class: label, Count: len(es)})
		}
		sort.Slice(ic.Classes, func(i, j int) bool { return ic.Classes[i].Class < ic.Classes[j].Class })
		out = append(out, ic)
	}
	return encode(c, out)
}
