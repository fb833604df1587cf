package edit

import "livehl/internal/rangeset"

// ByteEdit is an Edit expressed in parser byte addressing.
type ByteEdit struct {
	StartByte  uint32
	OldEndByte uint32
	NewEndByte uint32
}

// Bytes scales e by bytesPerUnit, the fixed width of one document unit in the
// parser's encoding. It reports false when the edit would end before offset 0.
func (e Edit) Bytes(bytesPerUnit int) (ByteEdit, bool) {
	if bytesPerUnit <= 0 {
		bytesPerUnit = 1
	}
	if e.NewEnd() < 0 || e.Location < 0 || e.OldLength < 0 {
		rangeset.Assertf(false, "invalid edit %v", e)
		return ByteEdit{}, false
	}
	return ByteEdit{
		StartByte:  uint32(e.Location * bytesPerUnit),
		OldEndByte: uint32(e.OldEnd() * bytesPerUnit),
		NewEndByte: uint32(e.NewEnd() * bytesPerUnit),
	}, true
}

// Units converts a byte edit back to document units.
func (b ByteEdit) Units(bytesPerUnit int) Edit {
	if bytesPerUnit <= 0 {
		bytesPerUnit = 1
	}
	start := int(b.StartByte) / bytesPerUnit
	return Edit{
		Location:  start,
		OldLength: int(b.OldEndByte)/bytesPerUnit - start,
		NewLength: int(b.NewEndByte)/bytesPerUnit - start,
	}
}
