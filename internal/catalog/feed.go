package catalog

import "abk-storefront/internal/domain"

// Feed accumulates successive pages for "load more" consumers.
// It resets whenever the filter changes and stops once an empty page arrives.
type Feed struct {
	spec    FilterSpec
	items   []domain.Product
	started bool
	done    bool
}

// Reset discards accumulated items and starts over at page 0 of spec
func (f *Feed) Reset(spec FilterSpec) {
	f.spec = spec.WithPage(0).Normalized()
	f.items = nil
	f.started = false
	f.done = false
}

// Append records the page fetched for spec and returns everything accumulated so far.
// A page for a different filter replaces the accumulator; a repeated or out-of-order page
// for the same filter is dropped.
func (f *Feed) Append(spec FilterSpec, page []domain.Product) []domain.Product {
	spec = spec.Normalized()

	switch {
	case !spec.SameFilter(f.spec) || spec.PageSize != f.spec.PageSize || spec.Page == 0:
		f.Reset(spec)
	case f.started && spec.Page != f.spec.Page+1:
		return f.Items()
	}

	f.spec = spec
	f.started = true
	f.items = append(f.items, page...)
	if len(page) == 0 {
		f.done = true
	}

	return f.Items()
}

// Next returns the spec for the page after the last one appended
func (f *Feed) Next() FilterSpec {
	if !f.started {
		return f.spec
	}
	return f.spec.WithPage(f.spec.Page + 1)
}

// LoadMore fetches the next page from all through engine and appends it.
// It reports false once the end of the result set has been reached.
func (f *Feed) LoadMore(engine *Engine, all []domain.Product) ([]domain.Product, bool) {
	if f.done {
		return f.Items(), false
	}

	next := f.Next()
	items := f.Append(next, engine.View(all, next))
	return items, !f.done
}

// Done reports whether an empty page has been seen
func (f *Feed) Done() bool {
	return f.done
}

// Items returns a copy of the accumulated products
func (f *Feed) Items() []domain.Product {
	out := make([]domain.Product, len(f.items))
	copy(out, f.items)
	return out
}
