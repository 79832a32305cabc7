package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

// MaxAttachmentSize bounds screenshots uploaded with "attach".
const MaxAttachmentSize = 10 << 20

type Accounts interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	Profile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, displayName string) error
}

// Session is the part of session.Bridge the commands drive.
type Session interface {
	Logout(ctx context.Context)
	Navigate(ctx context.Context, page string)
	SetTheme(ctx context.Context, theme string)
	Reload(ctx context.Context) error
	LoggedIn() bool
	Snapshot() services.Snapshot
}

type Trades interface {
	List(ctx context.Context) ([]models.Trade, error)
	ListForCalendar(ctx context.Context, from, to time.Time) ([]models.Trade, error)
	Add(ctx context.Context, t models.Trade) (models.Trade, error)
	Upsert(ctx context.Context, t models.Trade) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type Ledger interface {
	List(ctx context.Context) ([]models.LedgerEntry, error)
	Upsert(ctx context.Context, e models.LedgerEntry) error
	Delete(ctx context.Context, id string) error
}

type Challenges interface {
	List(ctx context.Context) ([]models.Challenge, error)
	Upsert(ctx context.Context, c models.Challenge) error
	Delete(ctx context.Context, id string) error
}

type PartialExits interface {
	List(ctx context.Context, tradeID string) ([]models.PartialExit, error)
	Save(ctx context.Context, p models.PartialExit) error
	Delete(ctx context.Context, id string) error
}

type Attachments interface {
	AttachToTrade(ctx context.Context, tradeID, name string, data []byte, contentType string) (services.Upload, error)
}

// StatusSource reports the connection indicator state.
type StatusSource interface {
	Status() status.ConnectionStatus
	LastSync() time.Time
}

// Deps are the facades the commands call.
type Deps struct {
	Accounts     Accounts
	Session      Session
	Trades       Trades
	Ledger       Ledger
	Challenges   Challenges
	PartialExits PartialExits
	Attachments  Attachments
	Status       StatusSource
}

type App struct {
	Deps
	term   *Terminal
	reader *bufio.Reader
	out    io.Writer
	clock  clock.Clock
	log    logging.Logger
}

func NewApp(deps Deps, term *Terminal, in io.Reader, out io.Writer, clk clock.Clock, log logging.Logger) *App {
	if clk == nil {
		clk = clock.WallClock
	}
	return &App{
		Deps:   deps,
		term:   term,
		reader: bufio.NewReader(in),
		out:    out,
		clock:  clk,
		log:    log,
	}
}

func (a *App) isLoggedIn() bool {
	return a.Session.LoggedIn()
}

func (a *App) now() time.Time {
	return a.clock.Now().UTC()
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Trading journal (type 'help' for commands)")
	runREPL(ctx, a, a.term.Prompt, a.reader)
}
