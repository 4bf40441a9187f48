package ingest

import "time"

type stepClock struct{ uptime time.Duration }

func (c *stepClock) Now() time.Time        { return time.Unix(0, 0).Add(c.uptime) }
func (c *stepClock) Uptime() time.Duration { return c.uptime }
