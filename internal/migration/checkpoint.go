package migration

// checkpoint tracks the last document whose writes all landed in committed
// batches. A commit may end partway through a document; that document only
// counts once a later commit covers its final write.
type checkpoint struct {
	pending   []stagedDoc
	committed int
	lastID    string
}

type stagedDoc struct {
	id  string
	end int
}

// staged records that id's writes end at cumulative write index end.
func (c *checkpoint) staged(id string, end int) {
	c.pending = append(c.pending, stagedDoc{id: id, end: end})
	c.advance()
}

// commit records ops newly committed writes.
func (c *checkpoint) commit(ops int) {
	c.committed += ops
	c.advance()
}

func (c *checkpoint) advance() {
	i := 0
	for i < len(c.pending) && c.pending[i].end <= c.committed {
		c.lastID = c.pending[i].id
		i++
	}
	c.pending = c.pending[i:]
}

func (c *checkpoint) last() string { return c.lastID }
