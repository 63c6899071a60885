// Package debug provides env-var gated debug logging for the engines.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Split    bool
	Merge    bool
	Assemble bool
	Plan     bool
	Codec    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Split = boolEnv("SHARD_DEBUG_SPLIT")
	d.Merge = boolEnv("SHARD_DEBUG_MERGE")
	d.Assemble = boolEnv("SHARD_DEBUG_ASSEMBLE")
	d.Plan = boolEnv("SHARD_DEBUG_PLAN")
	d.Codec = boolEnv("SHARD_DEBUG_CODEC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Split() bool {
	return d.Split
}
func Merge() bool {
	return d.Merge
}
func Assemble() bool {
	return d.Assemble
}
func Plan() bool {
	return d.Plan
}
func Codec() bool {
	return d.Codec
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
