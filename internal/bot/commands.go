package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/medcampus/medcampus/internal/app"
)

const (
	studentHelp = `Commandes disponibles :
/token - Obtenir un token d'accès à l'API
/mesnotes - Consulter mes notes
/eligibilite - Vérifier mon éligibilité aux certificats
/help - Afficher ce message`

	adminHelp = `Commandes disponibles :
/token - Obtenir un token d'accès à l'API
/mesnotes - Consulter mes notes
/eligibilite - Vérifier mon éligibilité aux certificats
/lier <utilisateur_tg> <matricule> - Lier un compte Telegram à un matricule
/help - Afficher ce message

Exemple :
/lier jdupont DUPJEAMED20000115`
)

type commandHandler func(*tgbotapi.Message) error

func (b *Bot) routeStudentCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start":       b.handleStart,
		"token":       b.handleToken,
		"mesnotes":    b.handleMyGrades,
		"eligibilite": b.handleEligibility,
		"help":        b.handleHelp,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"lier": b.handleLink,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	cmd := msg.Command()

	if handler, ok := b.routeStudentCommands(cmd); ok {
		if err := handler(msg); err != nil {
			logger.Error.Printf("Command error: %v", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Erreur : %v", err))
		}
		return
	}

	if b.admins[msg.From.ID] {
		if handler, ok := b.routeAdminCommands(cmd); ok {
			if err := handler(msg); err != nil {
				logger.Error.Printf("Command error: %v", err)
				b.sendMessage(msg.Chat.ID, fmt.Sprintf("Erreur : %v", err))
			}
		}
		return
	}

	b.sendHelp(msg.Chat.ID)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	var text string
	if b.admins[msg.From.ID] {
		text = adminHelp
	} else {
		text = studentHelp
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Utilisez les commandes pour interagir avec le bot. Envoyez /help pour la liste des commandes.")
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	text := "Bonjour ! Je suis le bot MedCampus.\n\n"
	if b.admins[msg.From.ID] {
		text += "Vous êtes administrateur. Utilisez /help pour la liste des commandes."
	} else {
		text += "Utilisez /token pour obtenir votre token d'accès."
	}

	return b.sendMessage(msg.Chat.ID, text)
}

// matriculeFor resolves the caller to a matricule through the mapping an
// admin created with /lier.
func (b *Bot) matriculeFor(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	if msg.From.UserName == "" {
		return "", fmt.Errorf("votre compte Telegram n'a pas de nom d'utilisateur")
	}

	matricule, err := b.tokens.FetchMatriculeByTelegram(ctx, msg.From.UserName)
	if err != nil {
		return "", fmt.Errorf("compte non lié, demandez à un administrateur de lier votre compte")
	}
	return matricule, nil
}

func (b *Bot) handleToken(msg *tgbotapi.Message) error {
	ctx := context.Background()

	matricule, err := b.matriculeFor(ctx, msg)
	if err != nil {
		return err
	}

	info, isNew, err := b.tokens.FetchOrCreateToken(ctx, matricule, app.RoleEtudiant)
	if err != nil {
		return fmt.Errorf("impossible de générer le token : %v", err)
	}

	intro := "Votre token d'accès :"
	if isNew {
		intro = "Nouveau token généré :"
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf("%s\n\n%s\n\nMatricule : %s", intro, info.Token, matricule))
}

func (b *Bot) handleMyGrades(msg *tgbotapi.Message) error {
	ctx := context.Background()

	matricule, err := b.matriculeFor(ctx, msg)
	if err != nil {
		return err
	}

	student, err := b.store.GetStudentByMatricule(matricule)
	if err != nil {
		return fmt.Errorf("erreur de recherche de l'étudiant : %v", err)
	}
	if student == nil {
		return fmt.Errorf("aucun étudiant avec le matricule %s", matricule)
	}

	grades, err := b.store.ListStudentGrades(student.ID)
	if err != nil {
		return fmt.Errorf("erreur de récupération des notes : %v", err)
	}

	if len(grades) == 0 {
		return b.sendMessage(msg.Chat.ID, "Aucune note enregistrée pour le moment")
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("Notes de %s %s :\n\n", student.Prenom, student.Nom))
	for _, g := range grades {
		out.WriteString(fmt.Sprintf("📚 %s (%s)\n✏️ %.2f/20 - session %s\n📅 %s\n\n",
			g.TitreCours,
			g.CodeCours,
			g.Valeur,
			g.Session,
			time.Unix(g.DateEvaluation, 0).UTC().Format("2006-01-02"),
		))
	}

	return b.sendMessage(msg.Chat.ID, out.String())
}

func (b *Bot) handleEligibility(msg *tgbotapi.Message) error {
	ctx := context.Background()

	matricule, err := b.matriculeFor(ctx, msg)
	if err != nil {
		return err
	}

	student, err := b.store.GetStudentByMatricule(matricule)
	if err != nil {
		return fmt.Errorf("erreur de recherche de l'étudiant : %v", err)
	}
	if student == nil {
		return fmt.Errorf("aucun étudiant avec le matricule %s", matricule)
	}

	results, err := b.evaluator.ListEligibility(student.ID)
	if err != nil {
		return fmt.Errorf("erreur de calcul d'éligibilité : %v", err)
	}

	if len(results) == 0 {
		return b.sendMessage(msg.Chat.ID, "Aucune note enregistrée, éligibilité indisponible")
	}

	var out strings.Builder
	out.WriteString("Éligibilité aux certificats :\n\n")
	for _, r := range results {
		status := "❌ non éligible"
		if r.Eligible {
			status = "✅ éligible"
		}
		if r.DejaGenere {
			status += " (certificat déjà généré)"
		}
		out.WriteString(fmt.Sprintf("🎓 %s / %s : %s\nCours validés : %d/%d\nMoyenne : %.2f (%s)\n\n",
			r.Filiere,
			r.Niveau,
			status,
			r.NbValides,
			r.NbCours,
			r.Moyenne,
			r.Mention,
		))
	}

	return b.sendMessage(msg.Chat.ID, out.String())
}

func (b *Bot) handleLink(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		return b.sendMessage(msg.Chat.ID, "Utilisation :\n/lier <utilisateur_tg> <matricule>")
	}

	tgUsername := strings.TrimPrefix(args[0], "@")
	matricule := args[1]

	student, err := b.store.GetStudentByMatricule(matricule)
	if err != nil {
		return fmt.Errorf("erreur de recherche de l'étudiant : %v", err)
	}
	if student == nil {
		return fmt.Errorf("aucun étudiant avec le matricule %s", matricule)
	}

	if err := b.tokens.SaveTelegramMapping(context.Background(), tgUsername, matricule); err != nil {
		return fmt.Errorf("erreur de sauvegarde du lien : %v", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Compte @%s lié à %s %s (%s)",
		tgUsername, student.Prenom, student.Nom, matricule))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
