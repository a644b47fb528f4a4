package components

// Cursor tracks the selected row and the scroll window over a list of n
// rows. It holds no items itself, so the rows can change underneath it;
// call SetLen after every change.
type Cursor struct {
	Index    int
	Offset   int
	PageSize int
	n        int
}

// NewCursor creates a cursor that shows pageSize rows at a time.
func NewCursor(pageSize int) *Cursor {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Cursor{PageSize: pageSize}
}

// Len returns the row count last given to SetLen.
func (c *Cursor) Len() int { return c.n }

// SetLen updates the row count and clamps the cursor and window into it.
func (c *Cursor) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	c.n = n
	if c.Index >= n {
		c.Index = n - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
	c.follow()
}

// Reset moves the cursor back to the first row.
func (c *Cursor) Reset() {
	c.Index = 0
	c.Offset = 0
}

// SetPageSize changes the window height, e.g. after a resize.
func (c *Cursor) SetPageSize(size int) {
	if size < 1 {
		size = 1
	}
	c.PageSize = size
	c.follow()
}

// Down moves the cursor down one row.
func (c *Cursor) Down() {
	if c.Index < c.n-1 {
		c.Index++
		c.follow()
	}
}

// Up moves the cursor up one row.
func (c *Cursor) Up() {
	if c.Index > 0 {
		c.Index--
		c.follow()
	}
}

// Window returns the half-open range of visible rows.
func (c *Cursor) Window() (start, end int) {
	end = c.Offset + c.PageSize
	if end > c.n {
		end = c.n
	}
	return c.Offset, end
}

func (c *Cursor) follow() {
	if c.Index < c.Offset {
		c.Offset = c.Index
	}
	if c.Index >= c.Offset+c.PageSize {
		c.Offset = c.Index - c.PageSize + 1
	}
	if limit := c.n - c.PageSize; c.Offset > limit {
		c.Offset = limit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
}
