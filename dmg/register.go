package dmg

type field struct {
	index uint8
	size  uint8
}

// register is an 8-bit hardware register with named bit fields.
type register struct {
	fields map[string]field
	values map[string]uint8
	reg    uint8
}

func newRegister(fields map[string]field) register {
	r := register{
		fields: fields,
		values: make(map[string]uint8, len(fields)),
	}
	for key := range r.fields {
		r.values[key] = 0
	}
	return r
}

func (f field) mask() uint8 {
	return uint8((1<<f.size)-1) << f.index
}

func (r *register) set(v uint8) {
	r.reg = v
	for key, f := range r.fields {
		r.values[key] = (r.reg & f.mask()) >> f.index
	}
}

func (r *register) setField(key string, v uint8) {
	f, ok := r.fields[key]
	if !ok {
		return
	}
	m := f.mask()
	r.set(r.reg&^m | (v<<f.index)&m)
}

func (r *register) field(key string) uint8 {
	v, ok := r.values[key]
	if !ok {
		panic("field " + key + " not found")
	}
	return v
}

func (r *register) flag(key string) bool {
	return r.field(key) != 0
}

func (r *register) attributes() map[string]uint8 {
	out := make(map[string]uint8, len(r.fields))
	for k := range r.fields {
		out[k] = r.field(k)
	}
	return out
}

func newLCDC() register {
	return newRegister(map[string]field{
		"bg_enable":     {0, 1},
		"obj_enable":    {1, 1},
		"obj_size":      {2, 1},
		"bg_map":        {3, 1},
		"tile_data":     {4, 1},
		"window_enable": {5, 1},
		"window_map":    {6, 1},
		"lcd_enable":    {7, 1},
	})
}

func newSTAT() register {
	return newRegister(map[string]field{
		"mode":       {0, 2},
		"lyc_match":  {2, 1},
		"hblank_int": {3, 1},
		"vblank_int": {4, 1},
		"oam_int":    {5, 1},
		"lyc_int":    {6, 1},
	})
}
