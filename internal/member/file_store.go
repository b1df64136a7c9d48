package member

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

const (
	memberFields     = 5
	idSequenceDigits = 5
)

// FileStore implements Store on two colon-delimited text files: member
// records as id:name:email:points:tier, and purchase history as
// id:date:(item,qty):(item,qty)... with one line appended per purchase.
type FileStore struct {
	membersPath string
	historyPath string
	thresholds  []int
	members     map[string]domain.Member
	history     map[string]domain.PurchaseHistory
	log         *zap.Logger
}

// NewFileStore loads members and history from their files. Missing files
// are not errors; the store starts empty. thresholds are the points bounds
// used for tier reconciliation on every save.
func NewFileStore(membersPath, historyPath string, thresholds []int, log *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		membersPath: membersPath,
		historyPath: historyPath,
		thresholds:  thresholds,
		members:     make(map[string]domain.Member),
		history:     make(map[string]domain.PurchaseHistory),
		log:         log,
	}
	if err := s.loadMembers(); err != nil {
		return nil, err
	}
	if err := s.loadHistory(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) loadMembers() error {
	f, err := os.Open(s.membersPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("members file not found, starting empty", zap.String("path", s.membersPath))
			return nil
		}
		return fmt.Errorf("opening members %s: %w", s.membersPath, err)
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
		m, err := parseMember(line)
		if err != nil {
			return fmt.Errorf("members %s line %d: %w", s.membersPath, lineNo, err)
		}
		s.members[m.ID] = m
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading members %s: %w", s.membersPath, err)
	}
	return nil
}

func parseMember(line string) (domain.Member, error) {
	fields := strings.Split(line, ":")
	if len(fields) != memberFields {
		return domain.Member{}, fmt.Errorf("expected %d fields, got %d", memberFields, len(fields))
	}

	points, err := strconv.Atoi(fields[3])
	if err != nil {
		return domain.Member{}, fmt.Errorf("bad points %q: %w", fields[3], err)
	}
	if points < 0 {
		return domain.Member{}, fmt.Errorf("negative points %q", fields[3])
	}

	tier, err := domain.ParseTier(fields[4])
	if err != nil {
		return domain.Member{}, err
	}

	return domain.Member{
		ID:     fields[0],
		Name:   fields[1],
		Email:  fields[2],
		Points: points,
		Tier:   tier,
	}, nil
}

func (s *FileStore) loadHistory() error {
	f, err := os.Open(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("history file not found, starting empty", zap.String("path", s.historyPath))
			return nil
		}
		return fmt.Errorf("opening history %s: %w", s.historyPath, err)
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
		memberID, date, items, err := parseHistoryLine(line)
		if err != nil {
			return fmt.Errorf("history %s line %d: %w", s.historyPath, lineNo, err)
		}
		hist, ok := s.history[memberID]
		if !ok {
			hist = make(domain.PurchaseHistory)
			s.history[memberID] = hist
		}
		// One purchase per line; repeat member+date lines merge by summing.
		hist.Merge(date, items)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading history %s: %w", s.historyPath, err)
	}
	return nil
}

func parseHistoryLine(line string) (memberID, date string, items map[string]int, err error) {
	fields := strings.Split(line, ":")
	if len(fields) < 3 {
		return "", "", nil, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	memberID, date = fields[0], fields[1]

	items = make(map[string]int, len(fields)-2)
	for _, entry := range fields[2:] {
		trimmed := strings.TrimSuffix(strings.TrimPrefix(entry, "("), ")")
		itemID, qtyStr, ok := strings.Cut(trimmed, ",")
		if !ok {
			return "", "", nil, fmt.Errorf("bad history entry %q", entry)
		}
		qty, convErr := strconv.Atoi(strings.TrimSpace(qtyStr))
		if convErr != nil {
			return "", "", nil, fmt.Errorf("bad quantity in %q: %w", entry, convErr)
		}
		items[strings.TrimSpace(itemID)] += qty
	}
	return memberID, date, items, nil
}

// Save rewrites the members file ordered by ID. Any member whose stored
// tier disagrees with the tier implied by their points is corrected first.
func (s *FileStore) Save() error {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		m := s.members[id]
		want := domain.TierForPoints(m.Points, s.thresholds)
		if m.Tier != want {
			s.log.Info("tier reconciled from points",
				zap.String("member_id", id),
				zap.Int("points", m.Points),
				zap.Stringer("stored", m.Tier),
				zap.Stringer("corrected", want))
			m.Tier = want
			s.members[id] = m
		}
		fmt.Fprintf(&b, "%s:%s:%s:%d:%s\n", m.ID, m.Name, m.Email, m.Points, m.Tier)
	}
	if err := os.WriteFile(s.membersPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing members %s: %w", s.membersPath, err)
	}
	return nil
}

// Get returns the member with the given ID
func (s *FileStore) Get(memberID string) (domain.Member, error) {
	m, ok := s.members[memberID]
	if !ok {
		return domain.Member{}, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	return m, nil
}

// List returns all members ordered by ID
func (s *FileStore) List() []domain.Member {
	members := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

// Register validates name and email, assigns a new member ID and persists
// the member. Duplicate name+email pairs are rejected.
func (s *FileStore) Register(name, email string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !ValidEmail(email) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	for _, m := range s.members {
		if m.Name == name && m.Email == email {
			return "", fmt.Errorf("%w: %s", ErrMemberExists, m.ID)
		}
	}

	id := s.generateID(name)
	s.members[id] = domain.Member{
		ID:    id,
		Name:  name,
		Email: email,
		Tier:  domain.Apprentice,
	}
	if err := s.Save(); err != nil {
		return "", err
	}
	return id, nil
}

// generateID derives up to two uppercase initials from the name (padded
// with 'X') and appends a five-digit sequence counting existing members
// sharing those initials, starting at 1.
func (s *FileStore) generateID(name string) string {
	var initials strings.Builder
	parts := strings.Fields(name)
	for i, part := range parts {
		if i == 2 {
			break
		}
		initials.WriteString(strings.ToUpper(string([]rune(part)[0])))
	}
	prefix := initials.String()
	for len(prefix) < 2 {
		prefix += "X"
	}

	count := 0
	for id := range s.members {
		if strings.HasPrefix(id, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, idSequenceDigits, count+1)
}

// AddPoints adjusts a member's points balance and persists. The stored
// balance never goes below zero.
func (s *FileStore) AddPoints(memberID string, delta int) error {
	m, ok := s.members[memberID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	m.Points += delta
	if m.Points < 0 {
		s.log.Warn("points floored at zero",
			zap.String("member_id", memberID),
			zap.Int("delta", delta))
		m.Points = 0
	}
	s.members[memberID] = m
	return s.Save()
}

// Tier returns the member's current tier
func (s *FileStore) Tier(memberID string) (domain.Tier, error) {
	m, ok := s.members[memberID]
	if !ok {
		return domain.Apprentice, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	return m.Tier, nil
}

// History returns the member's purchase history, empty if none
func (s *FileStore) History(memberID string) domain.PurchaseHistory {
	hist, ok := s.history[memberID]
	if !ok {
		return domain.PurchaseHistory{}
	}
	return hist
}

// AppendHistory records a purchase under the given date, merging quantities
// with existing entries in memory and appending one line to the history file.
func (s *FileStore) AppendHistory(memberID, date string, items map[string]int) error {
	if _, ok := s.members[memberID]; !ok {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	if len(items) == 0 {
		return nil
	}

	hist, ok := s.history[memberID]
	if !ok {
		hist = make(domain.PurchaseHistory)
		s.history[memberID] = hist
	}
	hist.Merge(date, items)

	f, err := os.OpenFile(s.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history %s: %w", s.historyPath, err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatHistoryLine(memberID, date, items)); err != nil {
		return fmt.Errorf("writing history %s: %w", s.historyPath, err)
	}
	return nil
}

func formatHistoryLine(memberID, date string, items map[string]int) string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s", memberID, date)
	for _, id := range ids {
		fmt.Fprintf(&b, ":(%s,%d)", id, items[id])
	}
	b.WriteString("\n")
	return b.String()
}
