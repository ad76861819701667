package stride

// ClusterSet holds every assembled cluster, indexed by kind and then by
// cluster id. Index 0 within each kind is a sentinel meaning "not a member
// of any cluster of this kind" and is always left empty, mirroring the
// original C++ assembler's 1-based cluster ids (§4.7).
type ClusterSet struct {
	byKind [5][]*Cluster
}

// Households returns the assembled household clusters (index 0 unused).
func (s *ClusterSet) Households() []*Cluster { return s.byKind[HouseholdKind] }

// DayClusters returns the assembled school/work clusters (index 0 unused).
func (s *ClusterSet) DayClusters() []*Cluster { return s.byKind[SchoolKind] }

// HomeDistricts returns the assembled home-district clusters (index 0 unused).
func (s *ClusterSet) HomeDistricts() []*Cluster { return s.byKind[HomeDistrictKind] }

// DayDistricts returns the assembled day-district clusters (index 0 unused).
func (s *ClusterSet) DayDistricts() []*Cluster { return s.byKind[DayDistrictKind] }

// AssembleClusters builds every cluster and binds each person's borrowed
// cluster membership (§4.7). It scans the population once per cluster
// kind, allocating arrays sized to the maximum referenced id (plus the
// sentinel 0), then a second time to assign members.
//
// A day cluster is tentatively a SchoolKind cluster; if any of its members
// is older than 24, the whole cluster is promoted to WorkKind (§4.7's
// school-to-work promotion rule: day clusters are not labeled per-member,
// so one adult among children reclassifies the entire cluster).
//
// Household size is written back onto every member once its household's
// membership is final, since generatePerson cannot know a household's
// final size until all its members exist (§4.6/§4.7 split of concerns).
func AssembleClusters(pop *Population) (*ClusterSet, error) {
	set := &ClusterSet{}

	households, err := allocate(pop, "household", func(p *Person) int { return p.HouseholdID })
	if err != nil {
		return nil, err
	}
	dayClusters, err := allocate(pop, "day_cluster", func(p *Person) int { return p.DayClusterID })
	if err != nil {
		return nil, err
	}
	homeDistricts, err := allocate(pop, "home_district", func(p *Person) int { return p.HomeDistrictID })
	if err != nil {
		return nil, err
	}
	dayDistricts, err := allocate(pop, "day_district", func(p *Person) int { return p.DayDistrictID })
	if err != nil {
		return nil, err
	}

	for i := range households {
		if households[i] != nil {
			households[i].Kind = HouseholdKind
		}
	}
	for i := range homeDistricts {
		if homeDistricts[i] != nil {
			homeDistricts[i].Kind = HomeDistrictKind
		}
	}
	for i := range dayDistricts {
		if dayDistricts[i] != nil {
			dayDistricts[i].Kind = DayDistrictKind
		}
	}
	for i := range dayClusters {
		if dayClusters[i] != nil {
			dayClusters[i].Kind = SchoolKind // tentative; promoted below
		}
	}

	assignMembers(pop, households, func(p *Person) int { return p.HouseholdID })
	assignMembers(pop, dayClusters, func(p *Person) int { return p.DayClusterID })
	assignMembers(pop, homeDistricts, func(p *Person) int { return p.HomeDistrictID })
	assignMembers(pop, dayDistricts, func(p *Person) int { return p.DayDistrictID })

	for _, c := range dayClusters {
		if c == nil {
			continue
		}
		for _, m := range c.members {
			if m.Age > 24 {
				c.Kind = WorkKind
				break
			}
		}
		c.FreezeSize()
	}
	for _, c := range households {
		if c == nil {
			continue
		}
		c.FreezeSize()
		for _, m := range c.members {
			m.HouseholdSize = c.size
		}
	}
	for _, c := range homeDistricts {
		if c != nil {
			c.FreezeSize()
		}
	}
	for _, c := range dayDistricts {
		if c != nil {
			c.FreezeSize()
		}
	}

	set.byKind[HouseholdKind] = households
	set.byKind[SchoolKind] = dayClusters
	set.byKind[HomeDistrictKind] = homeDistricts
	set.byKind[DayDistrictKind] = dayDistricts
	return set, nil
}

// allocate walks the population to find the maximum referenced cluster id
// of one kind and returns a slice of that length+1 (index 0 = sentinel),
// with a *Cluster allocated at every id actually referenced.
func allocate(pop *Population, kindName string, idOf func(*Person) int) ([]*Cluster, error) {
	maxID := 0
	for _, p := range pop.People {
		if id := idOf(p); id > maxID {
			maxID = id
		}
	}
	clusters := make([]*Cluster, maxID+1)
	for _, p := range pop.People {
		id := idOf(p)
		if id < 0 || id > maxID {
			return nil, ClusterReferenceOutOfRangeError(kindName, id, maxID)
		}
		if id == 0 {
			continue
		}
		if clusters[id] == nil {
			clusters[id] = NewCluster(id, 0)
		}
	}
	return clusters, nil
}

func assignMembers(pop *Population, clusters []*Cluster, idOf func(*Person) int) {
	for _, p := range pop.People {
		id := idOf(p)
		if id == 0 {
			continue
		}
		clusters[id].AddMember(p)
	}
}
