package conversation

import (
	"fmt"
	"strings"

	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

// assistantPersona opens every generation prompt so the tone stays
// consistent across turns.
const assistantPersona = `Tu es l'assistant devis d'une entreprise de rénovation française.
Tu ne tutoies jamais le client, tu restes chaleureux et concis (2 phrases maximum).
Réponds uniquement avec le message destiné au client, sans préambule.`

func recordSummary(record domain.ProjectRecord) string {
	var b strings.Builder
	for _, id := range []domain.FieldID{
		domain.FieldCategory,
		domain.FieldServiceType,
		domain.FieldDescription,
		domain.FieldSurface,
		domain.FieldRoomType,
	} {
		if v := record.Get(id); !v.IsEmpty() {
			fmt.Fprintf(&b, "- %s : %s\n", id, v.String())
		}
	}
	if b.Len() == 0 {
		return "(aucune information pour le moment)"
	}
	return strings.TrimRight(b.String(), "\n")
}

func askQuestionPrompt(field domain.FieldConfig, record domain.ProjectRecord) string {
	return fmt.Sprintf(`%s

Informations déjà collectées :
%s

Pose la question suivante au client, reformulée naturellement :
%s`, assistantPersona, recordSummary(record), field.QuestionTemplate)
}

func clarifyPrompt(field domain.FieldConfig, input string) string {
	return fmt.Sprintf(`%s

Le client a répondu : %q
Cette réponse ne suffit pas pour remplir le champ %q.
Redemande poliment, en reformulant : %s`,
		assistantPersona, input, field.DisplayName, field.QuestionTemplate)
}

func suggestIntroPrompt(field domain.FieldConfig) string {
	return fmt.Sprintf(`%s

Le client hésite sur le champ %q.
Écris UNE phrase d'introduction avant une liste d'exemples numérotés.
N'écris pas la liste elle-même.`, assistantPersona, field.DisplayName)
}

func answerPrompt(input string, field domain.FieldConfig) string {
	back := ""
	if field.QuestionTemplate != "" {
		back = fmt.Sprintf("\nTermine en ramenant le client à la question en cours : %s", field.QuestionTemplate)
	}
	return fmt.Sprintf(`%s

Le client pose une question : %q
Réponds brièvement.%s`, assistantPersona, input, back)
}

func summarizePrompt(scripted string) string {
	return fmt.Sprintf(`%s

Reformule ce récapitulatif de devis de façon naturelle, en gardant
toutes les informations et les montants exacts :

%s`, assistantPersona, scripted)
}

// photoAnalysisPrompt instructs the vision collaborator on project
// photos.
const photoAnalysisPrompt = `Ces photos montrent un chantier de rénovation en France.
Décris en français l'état visible (murs, sols, installations), les éventuels
dégâts, et tout élément utile pour chiffrer les travaux. Réponds en 3 phrases maximum.`
