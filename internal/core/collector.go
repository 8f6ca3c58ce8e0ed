package core

import (
	"strconv"

	"github.com/zeebo/xxh3"
)

// HandleCollision records a name whose canonical handle was already taken by
// a different name.
type HandleCollision struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`    // Name that holds the base handle
	Base     string `json:"base"`     // Handle both names derive
	Assigned string `json:"assigned"` // Suffixed handle given to Name
}

// Collector accumulates the unique brands and influencers and the campaigns
// of one run. It is built once per run and never shared between runs.
type Collector struct {
	brands    []string
	brandSeen map[string]struct{}

	influencers []Influencer
	handleOf    map[string]string // name -> assigned handle
	ownerOf     map[string]string // assigned handle -> name
	collisions  []HandleCollision

	campaigns    []Campaign
	fingerprints map[uint64]int // conflict key hash -> first source line
	duplicates   int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		brandSeen:    make(map[string]struct{}),
		handleOf:     make(map[string]string),
		ownerOf:      make(map[string]string),
		fingerprints: make(map[uint64]int),
	}
}

// AddBrand records a brand name. Names are deduplicated by exact match and
// kept in first-seen order.
func (c *Collector) AddBrand(name string) {
	if _, seen := c.brandSeen[name]; seen {
		return
	}
	c.brandSeen[name] = struct{}{}
	c.brands = append(c.brands, name)
}

// AddInfluencer records an influencer name and returns its handle.
// When the canonical handle is held by a different name, the smallest free
// numeric suffix starting at 2 is appended and the collision is recorded.
// The returned collision is nil when no suffix was needed.
func (c *Collector) AddInfluencer(name string) (string, *HandleCollision) {
	if handle, seen := c.handleOf[name]; seen {
		return handle, nil
	}

	base := CanonicalHandle(name)
	handle := base
	var collision *HandleCollision

	if owner, taken := c.ownerOf[base]; taken {
		for n := 2; ; n++ {
			handle = base + strconv.Itoa(n)
			if _, taken := c.ownerOf[handle]; !taken {
				break
			}
		}
		collision = &HandleCollision{
			Name:     name,
			Owner:    owner,
			Base:     base,
			Assigned: handle,
		}
		c.collisions = append(c.collisions, *collision)
	}

	c.handleOf[name] = handle
	c.ownerOf[handle] = name
	c.influencers = append(c.influencers, Influencer{Name: name, Handle: handle})
	return handle, collision
}

// AddCampaign appends a campaign. If another campaign already shares its
// conflict key (brand, handle, public date, content type), the first
// occurrence's source line is returned with dup set. Campaigns without a
// public date or content type never conflict.
func (c *Collector) AddCampaign(camp Campaign) (firstLine int, dup bool) {
	c.campaigns = append(c.campaigns, camp)

	if !camp.PublicDate.Valid || !camp.ContentType.Valid {
		return 0, false
	}

	key := conflictFingerprint(camp)
	if line, seen := c.fingerprints[key]; seen {
		c.duplicates++
		return line, true
	}
	c.fingerprints[key] = camp.Line
	return 0, false
}

func conflictFingerprint(camp Campaign) uint64 {
	h := xxh3.New()
	h.WriteString(camp.Brand)
	h.WriteString("\x00")
	h.WriteString(camp.Handle)
	h.WriteString("\x00")
	h.WriteString(camp.PublicDate.Time.Format(dateLayout))
	h.WriteString("\x00")
	h.WriteString(camp.ContentType.String)
	return h.Sum64()
}

// Brands returns the collected brand names in first-seen order.
func (c *Collector) Brands() []string { return c.brands }

// Influencers returns the collected influencers in first-seen order.
func (c *Collector) Influencers() []Influencer { return c.influencers }

// Campaigns returns the collected campaigns in source order.
func (c *Collector) Campaigns() []Campaign { return c.campaigns }

// Collisions returns every handle collision resolved so far.
func (c *Collector) Collisions() []HandleCollision { return c.collisions }

// Duplicates returns the number of campaigns whose conflict key repeated.
func (c *Collector) Duplicates() int { return c.duplicates }

// Dataset snapshots the collected state for emission.
func (c *Collector) Dataset(runID string) *Dataset {
	return &Dataset{
		RunID:       runID,
		Brands:      c.brands,
		Influencers: c.influencers,
		Campaigns:   c.campaigns,
	}
}
