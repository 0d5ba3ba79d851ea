package codec

import (
	"fmt"
	"regexp"
	"strconv"
)

// Ratings and last-watched episodes travel inside the document's tag
// column as ordinary-looking tokens. Only this boundary pattern-matches
// them; the rest of the program works with the typed fields on Item.

var (
	ratingTokenRe  = regexp.MustCompile(`^rating:([1-9]|10)$`)
	episodeTokenRe = regexp.MustCompile(`^S(\d+)E(\d+)$`)
)

// ReservedTag reports whether a tag reads as one of the typed tokens.
// Such tags may not be stored as user tags: the document's tag column
// must carry at most one rating token and one episode marker, and a
// look-alike user tag would be absorbed into the typed field on the
// next decode.
func ReservedTag(tag string) bool {
	if parseRatingToken(tag) > 0 {
		return true
	}
	_, _, ok := parseEpisodeToken(tag)
	return ok
}

// ratingToken renders a 1-10 score as its tag-column token
func ratingToken(rating int) string {
	return fmt.Sprintf("rating:%d", rating)
}

// parseRatingToken extracts a score from a tag token, 0 if not one
func parseRatingToken(tag string) int {
	m := ratingTokenRe.FindStringSubmatch(tag)
	if m == nil {
		return 0
	}
	rating, _ := strconv.Atoi(m[1])
	return rating
}

// episodeToken renders a season/episode pair as its tag-column token
func episodeToken(season, episode int) string {
	return fmt.Sprintf("S%dE%d", season, episode)
}

// parseEpisodeToken extracts a season/episode pair from a tag token
func parseEpisodeToken(tag string) (season, episode int, ok bool) {
	m := episodeTokenRe.FindStringSubmatch(tag)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}
