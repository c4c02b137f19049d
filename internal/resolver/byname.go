package resolver

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/paths"
	"github.com/aidanlsb/raven-actions/internal/slugs"
	"github.com/aidanlsb/raven-actions/internal/vault"
	"github.com/aidanlsb/raven-actions/internal/wikilink"
)

// Sort orders accepted by ByName.
const (
	SortBestGuess = "best-guess"
	SortPathAsc   = "path-asc"
	SortPathDesc  = "path-desc"
	SortCtimeAsc  = "ctime-asc"
	SortCtimeDesc = "ctime-desc"
	SortMtimeAsc  = "mtime-asc"
	SortMtimeDesc = "mtime-desc"
)

// ByName finds a note by file name. With best-guess (or an empty sort
// order) the name is resolved like a link: exact path first, then notes
// whose path ends with the name, closest to the vault root first, then a
// slug match. Any other order returns the first note named exactly name
// in that order. Creation times are not tracked, so ctime orders use the
// modification time.
func (r *Resolver) ByName(ctx context.Context, name, sortBy string) (*vault.Note, error) {
	files, err := r.store.List(ctx)
	if err != nil {
		return nil, outcome.Failf(outcome.HandlerError, "list notes: %v", err)
	}

	var found string
	if sortBy == "" || sortBy == SortBestGuess {
		found = bestGuess(files, wikilink.LinkPath(name))
	} else {
		found = firstNamed(files, name, sortBy)
	}
	if found == "" {
		return nil, outcome.Fail(outcome.NotFound, "No note found with that name")
	}

	note, err := r.load(ctx, found)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, outcome.Fail(outcome.NotFound, "No note found with that name")
	}
	return note, nil
}

func bestGuess(files []vault.File, linkPath string) string {
	want, err := paths.SanitizeNotePath(linkPath)
	if err != nil {
		return ""
	}

	for _, f := range files {
		if f.Path == want {
			return f.Path
		}
	}

	var suffixed []string
	for _, f := range files {
		if strings.HasSuffix(f.Path, "/"+want) {
			suffixed = append(suffixed, f.Path)
		}
	}
	if len(suffixed) > 0 {
		return closestToRoot(suffixed)
	}

	wantSlug := slugs.PathSlug(want)
	var slugged []string
	for _, f := range files {
		s := slugs.PathSlug(f.Path)
		if s == wantSlug || strings.HasSuffix(s, "/"+wantSlug) {
			slugged = append(slugged, f.Path)
		}
	}
	if len(slugged) > 0 {
		return closestToRoot(slugged)
	}
	return ""
}

func closestToRoot(candidates []string) string {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := strings.Count(candidates[i], "/"), strings.Count(candidates[j], "/")
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0]
}

func firstNamed(files []vault.File, name, sortBy string) string {
	want, err := paths.SanitizeNotePath(name)
	if err != nil {
		return ""
	}
	want = path.Base(want)

	sorted := make([]vault.File, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch sortBy {
		case SortPathDesc:
			return a.Path > b.Path
		case SortCtimeAsc, SortMtimeAsc:
			return a.ModTime.Before(b.ModTime)
		case SortCtimeDesc, SortMtimeDesc:
			return a.ModTime.After(b.ModTime)
		default:
			return a.Path < b.Path
		}
	})

	for _, f := range sorted {
		if f.Name == want {
			return f.Path
		}
	}
	return ""
}
