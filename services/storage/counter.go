package storage

import (
	"strconv"
	"strings"

	"obs-logger/utils"
)

// Counter is the persisted track number used to derive unique provisional
// track file names. It is read and rewritten once per writer start.
type Counter struct {
	store Storage
	path  string
	log   *utils.Logger
}

func NewCounter(store Storage, path string) *Counter {
	return &Counter{store: store, path: path, log: utils.L().Named("counter")}
}

// Read returns the persisted value. A missing or unreadable counter file
// means no track was written before, so it reads as 0.
func (c *Counter) Read() int {
	data, err := c.store.Read(c.path)
	if err != nil {
		if !IsNotExist(err) {
			c.log.Warn("read %s: %v", c.path, err)
		}
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		c.log.Warn("ignoring malformed counter %q in %s", strings.TrimSpace(string(data)), c.path)
		return 0
	}
	return n
}

// Write overwrites the counter file with value.
func (c *Counter) Write(value int) error {
	return c.store.Write(c.path, []byte(strconv.Itoa(value)+"\n"))
}

// AllocateNextTrackName returns base+n+ext for the smallest n greater than
// the stored counter for which exists reports false, and persists n. A
// failure to persist is logged; the returned name is still free.
func (c *Counter) AllocateNextTrackName(base, ext string, exists func(string) bool) string {
	n := c.Read() + 1
	name := base + strconv.Itoa(n) + ext
	for exists(name) {
		n++
		name = base + strconv.Itoa(n) + ext
	}
	if err := c.Write(n); err != nil {
		c.log.Warn("persist counter %d to %s: %v", n, c.path, err)
	}
	c.log.Debug("allocated track name %s", name)
	return name
}
