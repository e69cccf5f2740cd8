package sculpt

// PickHeight returns the signed height of the pick point, for the Draw mode
// height picker.
func PickHeight(pick PickResult, s *BrushSettings) (float32, bool) {
	if !pick.Editable() {
		return 0, false
	}
	_, h := DownVector(pick.Point, s.Origin(), s.WorldShape)
	return h, true
}

// pickerActive reports whether a pointer press samples a height instead of painting.
func pickerActive(s *BrushSettings, mods Modifiers) bool {
	return s.Mode == ModeDraw && mods.Ctrl()
}
