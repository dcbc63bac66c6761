package media

// Settings are the user's playback preferences relevant to track handling.
type Settings struct {
	// PreferredSubtitleLanguage is a comma-separated list of language codes
	// tried in order. The value "none" disables subtitles.
	PreferredSubtitleLanguage string
	PreferredAudioLanguage    string
	// SubtitleBlacklist is a comma-separated list of track labels never
	// picked by language preference.
	SubtitleBlacklist string
	Customization     Customization
}

// Customization overrides the default style of single-style subtitle tracks.
type Customization struct {
	Enabled      bool
	FontName     string
	FontSize     int
	PrimaryColor string
	OutlineColor string
	BackColor    string
	Outline      float64
	Shadow       float64
	MarginV      int
}
