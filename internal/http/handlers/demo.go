package handlers

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"
)

// Demo datasets backing the agent portal views. The inbox, client list,
// statistics charts and agent directory are presentation-only; the backend
// does not expose these collections yet.

type InboxTicket struct {
	ID         int
	Client     string
	Avatar     string
	Subject    string
	Message    string
	Status     string
	Priority   string
	Date       string
	Unread     bool
	AIResolved bool
}

func InboxTickets() []InboxTicket {
	return []InboxTicket{
		{ID: 1, Client: "Amine Benali", Avatar: "AB", Subject: "Erreur lors du paiement CB", Message: "Je reçois une erreur 404 quand je valide mon panier...", Status: "Nouveau", Priority: "Haute", Date: "Il y a 10 min", Unread: true},
		{ID: 2, Client: "Sophie Martin", Avatar: "SM", Subject: "Demande de remboursement", Message: "Le produit reçu ne correspond pas à la description...", Status: "En cours", Priority: "Moyenne", Date: "Il y a 1h"},
		{ID: 3, Client: "Karim Ziani", Avatar: "KZ", Subject: "Bug affichage Dashboard", Message: "Les graphiques ne se chargent pas sur Safari...", Status: "En cours", Priority: "Basse", Date: "Il y a 3h"},
		{ID: 4, Client: "Tech Corp", Avatar: "TC", Subject: "Facture manquante Octobre", Message: "Nous avons besoin de la facture pour la comptabilité.", Status: "Résolu", Priority: "Moyenne", Date: "Hier"},
		{ID: 5, Client: "Lina Dou", Avatar: "LD", Subject: "Problème connexion API", Message: "Ma clé API semble invalide depuis ce matin.", Status: "Nouveau", Priority: "Critique", Date: "Hier", Unread: true},
		{ID: 6, Client: "John Doe", Avatar: "JD", Subject: "Réinitialisation mot de passe", Message: "Fait automatiquement.", Status: "Résolu", Priority: "Basse", Date: "Hier", AIResolved: true},
	}
}

// FilterInbox applies the inbox tab filters: unread, in-progress (which
// includes new tickets) or resolved, optionally narrowed to AI-resolved.
func FilterInbox(items []InboxTicket, tab string, aiOnly bool) []InboxTicket {
	out := make([]InboxTicket, 0, len(items))
	for _, t := range items {
		switch tab {
		case "unread":
			if !t.Unread {
				continue
			}
		case "open":
			if t.Status != "En cours" && t.Status != "Nouveau" {
				continue
			}
		case "resolved":
			if t.Status != "Résolu" {
				continue
			}
			if aiOnly && !t.AIResolved {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

type DemoClient struct {
	ID        string
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Joined    string
	Status    string
}

func DemoClients() []DemoClient {
	return []DemoClient{
		{ID: "CL-001", FirstName: "Amine", LastName: "Benali", Company: "Tech Solutions", Email: "amine@tech.com", Phone: "0550 12 34 56", Joined: "2023-10-15", Status: "Actif"},
		{ID: "CL-002", FirstName: "Sophie", LastName: "Martin", Company: "Design Studio", Email: "sophie@design.com", Phone: "0561 22 33 44", Joined: "2023-11-02", Status: "Actif"},
		{ID: "CL-003", FirstName: "Karim", LastName: "Ziani", Company: "Freelance", Email: "karim.z@gmail.com", Phone: "0770 99 88 77", Joined: "2023-09-10", Status: "Inactif"},
		{ID: "CL-004", FirstName: "Lina", LastName: "Dou", Company: "StartUp Inc", Email: "lina@startup.io", Phone: "0661 55 66 77", Joined: "2023-12-01", Status: "Actif"},
		{ID: "CL-005", FirstName: "John", LastName: "Doe", Company: "-", Email: "john.doe@test.com", Phone: "0555 00 00 00", Joined: "2023-08-20", Status: "Suspendu"},
		{ID: "CL-006", FirstName: "Sarah", LastName: "Connor", Company: "Cyberdyne", Email: "sarah@future.net", Phone: "0540 11 22 33", Joined: "2024-01-05", Status: "Actif"},
	}
}

// FilterClients narrows the client list by free-text search over name,
// company, id and email, plus an optional joined-date range (YYYY-MM-DD).
func FilterClients(items []DemoClient, term, from, to string) []DemoClient {
	term = strings.ToLower(strings.TrimSpace(term))
	fromDate, fromOK := parseDay(from)
	toDate, toOK := parseDay(to)

	out := make([]DemoClient, 0, len(items))
	for _, cl := range items {
		if term != "" {
			haystack := strings.ToLower(strings.Join([]string{cl.FirstName, cl.LastName, cl.Company, cl.ID, cl.Email}, " "))
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		joined, ok := parseDay(cl.Joined)
		if fromOK && (!ok || joined.Before(fromDate)) {
			continue
		}
		if toOK && (!ok || joined.After(toDate)) {
			continue
		}
		out = append(out, cl)
	}
	return out
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AvatarColor picks a stable palette entry for a display name.
func AvatarColor(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	palette := []string{"#04093D", "#002BFF", "#714BD2", "#0F766E", "#B45309"}
	return palette[int(h.Sum64()%uint64(len(palette)))]
}

type Agent struct {
	ID        int
	LastName  string
	FirstName string
	Function  string
	Username  string
}

// AgentDirectory is the in-memory agent roster managed from the admin
// view. It lives for the process; administration is demo-only for now.
type AgentDirectory struct {
	mu     sync.Mutex
	agents []Agent
	nextID int
}

func NewAgentDirectory() *AgentDirectory {
	return &AgentDirectory{
		agents: []Agent{
			{ID: 1, LastName: "Smith", FirstName: "John", Function: "Support N2", Username: "john.s"},
			{ID: 2, LastName: "Doe", FirstName: "Jane", Function: "Admin", Username: "jane.d"},
			{ID: 3, LastName: "Wayne", FirstName: "Bruce", Function: "Support N1", Username: "batman"},
		},
		nextID: 4,
	}
}

func (d *AgentDirectory) List() []Agent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

func (d *AgentDirectory) Add(lastName, firstName, function, username string) Agent {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := Agent{ID: d.nextID, LastName: lastName, FirstName: firstName, Function: function, Username: username}
	d.nextID++
	d.agents = append(d.agents, a)
	return a
}

func (d *AgentDirectory) Delete(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, a := range d.agents {
		if a.ID == id {
			d.agents = append(d.agents[:i], d.agents[i+1:]...)
			return true
		}
	}
	return false
}

// Statistics demo series.

type DayVolume struct {
	Day     string
	Tickets int
}

func WeeklyVolume() []DayVolume {
	return []DayVolume{
		{"Lun", 40}, {"Mar", 30}, {"Mer", 55}, {"Jeu", 45},
		{"Ven", 60}, {"Sam", 20}, {"Dim", 15},
	}
}

type SatisfactionSlice struct {
	Label string
	Value int
	Color string
}

func SatisfactionSplit() []SatisfactionSlice {
	return []SatisfactionSlice{
		{"Satisfait", 65, "#4ADE80"},
		{"Neutre", 25, "#FACC15"},
		{"Insatisfait", 10, "#F87171"},
	}
}
