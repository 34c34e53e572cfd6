package views

import "slices"

// Bu dosyadaki primitive'ler sadece updaters paketi tarafından çağrılır.
// Her biri, tersini almak için gereken bilgiyi (Insertion / Removal) döner.
// Rollback generic bir "reset" değil, yapılan değişikliğin birebir tersidir.

// InsertEdge, ref'i koleksiyonu gözlemleyen her View'ın penceresine ekler ve
// her View'ın Total'ini TAM OLARAK bir kez artırır.
//
// Pencere doluysa en eski edge çıkarılır (Insertion.Evicted).
// ref zaten penceredeyse edge eklenmez ama Total yine artar, aynı mantıksal
// üye iki kez sayılmamalıdır, bu yüzden çağıran taraf (updater) tekrar eden
// admire'ı önceden eler.
func (r *Registry) InsertEdge(key CollectionKey, ref string) []Insertion {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return nil
	}
	c.total++

	out := make([]Insertion, 0, len(c.views))
	for _, name := range sortedNames(c) {
		v := &c.views[name].view
		ins := Insertion{View: name}
		if slices.Contains(v.Edges, ref) {
			ins.Skipped = true
		} else {
			v.Edges = append(v.Edges, ref)
			if v.Limit > 0 && len(v.Edges) > v.Limit {
				ins.Evicted = v.Edges[0]
				v.Edges = slices.Delete(v.Edges, 0, 1)
			}
		}
		v.Total++
		out = append(out, ins)
	}
	return out
}

// UndoInsert, InsertEdge'in birebir tersidir.
//
// Kayıtlı View'larda: ref çıkarılır, çıkarılmış (evicted) edge en başa geri
// konur, Total bir azaltılır. Optimistic faz ile rollback arasında abone olan
// View'lar bumped total'i miras aldığı için onların da Total'i azaltılır.
func (r *Registry) UndoInsert(key CollectionKey, ref string, insertions []Insertion) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return
	}
	if c.total > 0 {
		c.total--
	}

	recorded := make(map[string]Insertion, len(insertions))
	for _, ins := range insertions {
		recorded[ins.View] = ins
	}

	for name, entry := range c.views {
		v := &entry.view
		ins, wasRecorded := recorded[name]
		if !ins.Skipped {
			if i := slices.Index(v.Edges, ref); i >= 0 {
				v.Edges = slices.Delete(v.Edges, i, i+1)
			}
		}
		if wasRecorded && ins.Evicted != "" && !slices.Contains(v.Edges, ins.Evicted) {
			v.Edges = slices.Insert(v.Edges, 0, ins.Evicted)
		}
		if v.Total > 0 {
			v.Total--
		}
		if v.Total < len(v.Edges) {
			v.Total = len(v.Edges)
		}
	}
}

// RemoveEdge, ref'i her View'dan çıkarır ve her View'ın Total'ini bir azaltır.
//
// Entity bir View'ın penceresinde olmasa bile koleksiyondan bir üye eksildiği
// için o View'ın Total'i de azalır. Total 0'ın altına inmez; inmesi gereken
// durumda Removal.Clamped işaretlenir (çağıran invariant ihlali raporlar).
func (r *Registry) RemoveEdge(key CollectionKey, ref string) []Removal {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return nil
	}
	if c.total > 0 {
		c.total--
	}

	out := make([]Removal, 0, len(c.views))
	for _, name := range sortedNames(c) {
		v := &c.views[name].view
		rm := Removal{View: name, Index: slices.Index(v.Edges, ref)}
		if rm.Index >= 0 {
			v.Edges = slices.Delete(v.Edges, rm.Index, rm.Index+1)
		}
		if v.Total > 0 {
			v.Total--
		} else {
			rm.Clamped = true
		}
		out = append(out, rm)
	}
	return out
}

// UndoRemove, RemoveEdge'in birebir tersidir: ref eski index'ine geri konur,
// Total bir artırılır (clamp edilmiş View'lar hariç).
func (r *Registry) UndoRemove(key CollectionKey, ref string, removals []Removal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return
	}
	clamped := len(removals) > 0
	for _, rm := range removals {
		clamped = clamped && rm.Clamped
	}
	if !clamped {
		c.total++
	}

	for _, rm := range removals {
		entry, ok := c.views[rm.View]
		if !ok {
			continue
		}
		v := &entry.view
		if rm.Index >= 0 && !slices.Contains(v.Edges, ref) {
			idx := min(rm.Index, len(v.Edges))
			v.Edges = slices.Insert(v.Edges, idx, ref)
		}
		if !rm.Clamped {
			v.Total++
		}
		if v.Total < len(v.Edges) {
			v.Total = len(v.Edges)
		}
	}
}

// ReplaceEdge, geçici ref'i kanonik ref ile AYNI pozisyonda değiştirir.
//
// Kanonik ref pencerede zaten varsa (ör. pagination veya realtime event onu
// önceden getirdiyse) geçici edge silinir, tek kayıt kalır. Bu durumların
// sayısı duplicates olarak döner; çağıran bunu raporlar.
func (r *Registry) ReplaceEdge(key CollectionKey, tempRef, canonicalRef string) (duplicates int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[key]
	if !ok {
		return 0
	}
	for _, entry := range c.views {
		v := &entry.view
		i := slices.Index(v.Edges, tempRef)
		if i < 0 {
			continue
		}
		if slices.Contains(v.Edges, canonicalRef) {
			v.Edges = slices.Delete(v.Edges, i, i+1)
			duplicates++
			continue
		}
		v.Edges[i] = canonicalRef
	}
	return duplicates
}

func sortedNames(c *collection) []string {
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
