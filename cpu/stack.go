package cpu

// push16 pushes v onto the stack high byte first, onto the
// DMG's downward-growing SP.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.mem.Set(c.SP, uint8(v>>8))
	c.SP--
	c.mem.Set(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.mem.Get(c.SP)
	c.SP++
	hi := c.mem.Get(c.SP)
	c.SP++
	return imm16(lo, hi)
}
