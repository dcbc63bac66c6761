// Package tracks picks the default subtitle and audio tracks of a session.
package tracks

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/depeter/cuesync/internal/media"
)

// NoneLanguage in a subtitle preference list disables subtitles.
const NoneLanguage = "none"

// PickDefaultSubtitleTrack applies the subtitle fallback chain:
//
//  1. each preferred language in order, skipping blacklisted labels,
//     preferring a forced track;
//  2. English tracks (an empty language counts as English), preferring a
//     forced or default track;
//  3. the first track of the manifest.
//
// It returns media.NoTrack when the list is empty or a "none" preference is
// reached before any match.
func PickDefaultSubtitleTrack(list []media.Track, preferred, blacklist string) int {
	blocked := make(map[string]struct{})
	for _, label := range SplitList(blacklist) {
		blocked[strings.ToLower(label)] = struct{}{}
	}

	for _, lang := range SplitList(preferred) {
		if strings.EqualFold(lang, NoneLanguage) {
			return media.NoTrack
		}
		var found []media.Track
		for _, t := range list {
			if _, skip := blocked[strings.ToLower(t.Name)]; skip {
				continue
			}
			if SameLanguage(t.Language, lang) {
				found = append(found, t)
			}
		}
		if len(found) > 0 {
			return firstMatching(found, func(t media.Track) bool { return t.Forced }).Number
		}
	}

	if english := filter(list, func(t media.Track) bool { return IsEnglish(t.Language) }); len(english) > 0 {
		return firstMatching(english, forcedOrDefault).Number
	}

	if len(list) > 0 {
		return list[0].Number
	}
	return media.NoTrack
}

// PickDefaultAudioTrack applies the language tiers of the subtitle chain to
// audio tracks: a preferred language match prefers a forced track, the
// English fallback a forced or default one. It reports false when nothing matched, in which case the
// platform's default audio track should stay engaged.
func PickDefaultAudioTrack(list []media.Track, preferred string) (int, bool) {
	for _, lang := range SplitList(preferred) {
		found := filter(list, func(t media.Track) bool { return SameLanguage(t.Language, lang) })
		if len(found) > 0 {
			return firstMatching(found, func(t media.Track) bool { return t.Forced }).Number, true
		}
	}
	if english := filter(list, func(t media.Track) bool { return IsEnglish(t.Language) }); len(english) > 0 {
		return firstMatching(english, forcedOrDefault).Number, true
	}
	return media.NoTrack, false
}

// SameLanguage compares two language codes by their ISO 639 base language,
// so "en", "eng" and "en-US" are equal. Unparseable codes compare verbatim.
func SameLanguage(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if strings.EqualFold(a, b) {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	ba, errA := baseLanguage(a)
	bb, errB := baseLanguage(b)
	if errA != nil || errB != nil {
		return false
	}
	return ba == bb
}

// IsEnglish reports whether a track language is English. Tracks without a
// language are treated as English.
func IsEnglish(lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return true
	}
	return SameLanguage(lang, "en")
}

// SplitList splits a comma-separated preference string, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func baseLanguage(code string) (string, error) {
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		return base.String(), nil
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", err
	}
	return base.String(), nil
}

func forcedOrDefault(t media.Track) bool {
	return t.Forced || t.Default
}

func filter(list []media.Track, keep func(media.Track) bool) []media.Track {
	var out []media.Track
	for _, t := range list {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// firstMatching returns the first track satisfying pref, or the first track.
// list must not be empty.
func firstMatching(list []media.Track, pref func(media.Track) bool) media.Track {
	for _, t := range list {
		if pref(t) {
			return t
		}
	}
	return list[0]
}
