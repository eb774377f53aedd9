package catalog

import (
	"github.com/rs/zerolog/log"

	"github.com/pkgsel/pkgsel/query"
)

// preloader is implemented by file index providers able to load eagerly
type preloader interface {
	Load() error
}

// Select parses query text and filters list with it
//
// Empty query selects whole list without parsing. Syntax errors are returned as *query.SyntaxError
// before any record is evaluated, invalid patterns are reported by Compile. When query refers to
// file attribute, the file index is loaded upfront.
func Select(list *RecordList, q string, ev *Evaluator, workers int) (*RecordList, error) {
	if query.IsEmpty(q) {
		return list, nil
	}

	tree, err := query.Parse(q)
	if err != nil {
		return nil, err
	}

	if err = ev.Compile(tree); err != nil {
		return nil, err
	}

	if query.References(tree, AttrFile) {
		if p, ok := ev.Files.(preloader); ok {
			if err = p.Load(); err != nil {
				log.Warn().Err(err).Msg("file index is not available")
			}
		}
	}

	log.Trace().Str("query", tree.String()).Str("mode", ev.Mode.String()).Int("records", list.Len()).Msg("selecting")

	return Filter(list, tree, ev, workers)
}
