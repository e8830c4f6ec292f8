package economy

// Catalog listings are cached for reads only. Prices and rewards charged by
// the ledger are always read inside the ledger transaction.
//
// cacheGeneration advances on every invalidation. A listing read from the
// store is cached only if no invalidation happened since the read began.

func (s *Service) catalogGeneration() uint64 {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cacheGeneration
}

func (s *Service) getCachedExercises() ([]Exercise, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	if !s.exerciseCacheSet {
		s.metrics.IncCacheMiss()
		return nil, false
	}
	s.metrics.IncCacheHit()
	return cloneExercises(s.exerciseCache), true
}

func (s *Service) setCachedExercises(generation uint64, exercises []Exercise) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if generation != s.cacheGeneration {
		return
	}
	s.exerciseCache = cloneExercises(exercises)
	s.exerciseCacheSet = true
}

func (s *Service) getCachedSolutions(category string) ([]Solution, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	solutions, ok := s.solutionsByFilter[category]
	if !ok {
		s.metrics.IncCacheMiss()
		return nil, false
	}
	s.metrics.IncCacheHit()
	return cloneSolutions(solutions), true
}

func (s *Service) setCachedSolutions(generation uint64, category string, solutions []Solution) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if generation != s.cacheGeneration {
		return
	}
	s.solutionsByFilter[category] = cloneSolutions(solutions)
}

func (s *Service) invalidateCatalogCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cacheGeneration++
	s.exerciseCache = nil
	s.exerciseCacheSet = false
	s.solutionsByFilter = make(map[string][]Solution)
}

// Callers get their own copies so a handler mutating a slice cannot leak
// into the shared cache.
func cloneExercises(exercises []Exercise) []Exercise {
	out := make([]Exercise, len(exercises))
	for idx, exercise := range exercises {
		exercise.Instructions = append([]string(nil), exercise.Instructions...)
		out[idx] = exercise
	}
	return out
}

func cloneSolutions(solutions []Solution) []Solution {
	out := make([]Solution, len(solutions))
	copy(out, solutions)
	return out
}
