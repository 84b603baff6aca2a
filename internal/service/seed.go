package service

import (
	"context"
	"fmt"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

var demoUsers = []NewUser{
	{Name: "Administrador", Login: "admin", Password: "admin123", Role: models.RoleAdministrator},
	{Name: "Colaborador Padrão", Login: "colab", Password: "colab123", Role: models.RoleCollaborator},
	{Name: "Técnico Suporte", Login: "tecnico", Password: "tecnico123", Role: models.RoleTechnician},
}

var demoTickets = []NewTicket{
	{Title: "Problema com Impressora", Description: "A impressora do setor financeiro não imprime e aparece offline.", Priority: 2, Category: "hardware"},
	{Title: "Erro no Sistema X", Description: "O Sistema X apresenta erro ao abrir o arquivo de relatórios mensais.", Priority: 4, Category: "software"},
}

var demoArticles = []ArticleInput{
	{
		Title:    "Como reiniciar um computador com Windows",
		Summary:  "Reinicie seu computador para resolver muitos problemas",
		Content:  "1. Clique no botão **Iniciar**\n2. Selecione *Desligar/Reiniciar*\n3. Escolha **Reiniciar**\n4. Aguarde o carregamento completo do sistema\n",
		Category: "software",
		Tags:     []string{"computador", "reiniciar", "windows", "sistema"},
		Keywords: []string{"reiniciar", "restart", "desligar", "travado", "windows"},
	},
	{
		Title:    "Resolução de problemas de conexão Wi-Fi",
		Summary:  "Passo a passo para reconectar à Wi-Fi",
		Content:  "## Verifique a senha\nSenhas Wi-Fi diferenciam maiúsculas e minúsculas.\n\n## Reinicie o roteador\nDesligue por 30 segundos e aguarde 2 minutos após religar.\n",
		Category: "rede",
		Tags:     []string{"wifi", "internet", "rede", "roteador"},
		Keywords: []string{"wifi", "internet", "conexão", "rede", "lento", "desconecta"},
	},
	{
		Title:    "Impressora offline",
		Summary:  "Verifique conexão, papel e drivers da impressora",
		Content:  "1. Verifique se há papel e toner\n2. Desligue a impressora por 30 segundos\n3. Confira o cabo USB ou a conexão de rede\n4. Reinstale os drivers se o problema persistir\n",
		Category: "hardware",
		Tags:     []string{"impressora", "offline", "drivers"},
		Keywords: []string{"impressora", "não imprime", "offline", "papel", "toner", "imprimir"},
	},
}

// seedDemo creates the demo accounts, articles and tickets. Existing accounts are
// reused and content is only added to an empty knowledge base or ticket queue.
func seedDemo(ctx context.Context, store repository.Store, users *UserService, tickets *TicketService, articles *ArticleService) error {
	seeded, err := users.Seed(ctx, demoUsers)
	if err != nil {
		return err
	}
	byLogin := make(map[string]models.User, len(seeded))
	for _, u := range seeded {
		byLogin[u.Login] = u
	}
	admin, colab := byLogin["admin"], byLogin["colab"]

	existing, err := store.Articles().List(ctx, "", "")
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, in := range demoArticles {
			if _, err := articles.create(ctx, &admin, in); err != nil {
				return fmt.Errorf("seeding article %q: %w", in.Title, err)
			}
		}
	}

	n, err := store.Tickets().Count(ctx, repository.TicketFilter{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	owner := Actor{ID: colab.ID, Role: colab.Role}
	for _, in := range demoTickets {
		if _, err := tickets.Create(ctx, owner, in); err != nil {
			return fmt.Errorf("seeding ticket %q: %w", in.Title, err)
		}
	}
	return nil
}
