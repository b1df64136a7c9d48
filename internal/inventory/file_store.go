package inventory

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

const (
	seasonalToken    = "SEASONAL"
	notSeasonalToken = "NOTSEASONAL"

	fieldsPerRecord = 5
)

// FileStore implements Store on top of a colon-delimited text file with one
// item record per line: id:name:price:stock:SEASONAL|NOTSEASONAL.
// Every mutation rewrites the file so the record on disk always matches memory.
type FileStore struct {
	path  string
	items map[string]domain.Item
	log   *zap.Logger
}

// NewFileStore loads the inventory from path. A missing file is not an
// error; the store starts empty.
func NewFileStore(path string, log *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		items: make(map[string]domain.Item),
		log:   log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("inventory file not found, starting empty", zap.String("path", s.path))
			return nil
		}
		return fmt.Errorf("opening inventory %s: %w", s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		item, err := parseRecord(line)
		if err != nil {
			return fmt.Errorf("inventory %s line %d: %w", s.path, lineNo, err)
		}
		s.items[item.ID] = item
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading inventory %s: %w", s.path, err)
	}
	return nil
}

func parseRecord(line string) (domain.Item, error) {
	fields := strings.Split(line, ":")
	if len(fields) != fieldsPerRecord {
		return domain.Item{}, fmt.Errorf("expected %d fields, got %d", fieldsPerRecord, len(fields))
	}

	price, err := decimal.NewFromString(fields[2])
	if err != nil {
		return domain.Item{}, fmt.Errorf("bad price %q: %w", fields[2], err)
	}
	if price.IsNegative() {
		return domain.Item{}, fmt.Errorf("negative price %q", fields[2])
	}

	stock, err := strconv.Atoi(fields[3])
	if err != nil {
		return domain.Item{}, fmt.Errorf("bad stock %q: %w", fields[3], err)
	}
	if stock < 0 {
		return domain.Item{}, fmt.Errorf("bad stock %q: %w", fields[3], ErrNegativeStock)
	}

	return domain.Item{
		ID:       fields[0],
		Name:     fields[1],
		Price:    price,
		Stock:    stock,
		Seasonal: fields[4] == seasonalToken,
	}, nil
}

func (s *FileStore) save() error {
	var b strings.Builder
	for _, item := range s.List() {
		token := notSeasonalToken
		if item.Seasonal {
			token = seasonalToken
		}
		fmt.Fprintf(&b, "%s:%s:%s:%d:%s\n", item.ID, item.Name, item.Price.StringFixed(2), item.Stock, token)
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing inventory %s: %w", s.path, err)
	}
	return nil
}

// Get returns the item with the given ID
func (s *FileStore) Get(itemID string) (domain.Item, error) {
	item, ok := s.items[itemID]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item, nil
}

// List returns all items ordered by ID
func (s *FileStore) List() []domain.Item {
	items := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Exists reports whether an item with the given ID is known
func (s *FileStore) Exists(itemID string) bool {
	_, ok := s.items[itemID]
	return ok
}

// InStock reports whether at least quantity units are on hand
func (s *FileStore) InStock(itemID string, quantity int) bool {
	item, ok := s.items[itemID]
	return ok && item.Stock >= quantity
}

// Add inserts a new item and persists the inventory
func (s *FileStore) Add(item domain.Item) error {
	if _, ok := s.items[item.ID]; ok {
		return fmt.Errorf("%w: %s", ErrItemExists, item.ID)
	}
	if item.Stock < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeStock, item.ID)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("adding %s: price cannot be negative", item.ID)
	}
	s.items[item.ID] = item
	return s.save()
}

// Remove deletes an item and persists the inventory
func (s *FileStore) Remove(itemID string) error {
	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	delete(s.items, itemID)
	return s.save()
}

// SetStock sets the stock level for one item and persists the inventory
func (s *FileStore) SetStock(itemID string, stock int) error {
	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if stock < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeStock, itemID)
	}
	item.Stock = stock
	s.items[itemID] = item
	return s.save()
}

// SetSeasonal flips the seasonal flag for one item and persists the inventory
func (s *FileStore) SetSeasonal(itemID string, seasonal bool) error {
	item, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	item.Seasonal = seasonal
	s.items[itemID] = item
	return s.save()
}

// UpdateStock applies a batch of stock levels and persists once. Unknown
// IDs and negative levels are logged and skipped so a checkout write-back
// never fails halfway.
func (s *FileStore) UpdateStock(stocks map[string]int) error {
	for itemID, stock := range stocks {
		item, ok := s.items[itemID]
		if !ok {
			s.log.Warn("stock update for unknown item", zap.String("item_id", itemID))
			continue
		}
		if stock < 0 {
			s.log.Warn("negative stock level skipped", zap.String("item_id", itemID), zap.Int("stock", stock))
			continue
		}
		item.Stock = stock
		s.items[itemID] = item
	}
	return s.save()
}
