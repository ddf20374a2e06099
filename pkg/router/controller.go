package router

// Host is something that re-renders on request, such as a session or a
// router view.
type Host interface {
	RequestUpdate()
}

// Controller fans update requests out to its hosts.
type Controller struct {
	hosts []Host
}

// AddHost attaches h. Adding a host twice has no effect.
func (c *Controller) AddHost(h Host) {
	for _, existing := range c.hosts {
		if existing == h {
			return
		}
	}
	c.hosts = append(c.hosts, h)
}

// RemoveHost detaches h.
func (c *Controller) RemoveHost(h Host) {
	for i, existing := range c.hosts {
		if existing == h {
			c.hosts = append(c.hosts[:i], c.hosts[i+1:]...)
			return
		}
	}
}

// Hosts returns the attached hosts in attachment order.
func (c *Controller) Hosts() []Host {
	return c.hosts
}

// RequestUpdate asks every attached host to re-render.
func (c *Controller) RequestUpdate() {
	for _, h := range c.hosts {
		h.RequestUpdate()
	}
}
