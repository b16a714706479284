package usecase

import (
	"context"
	"sync"

	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/rs/zerolog/log"
)

// TransferLeadsUseCase convertit un lot de leads en clients: création des
// clients en parallèle, suppression des leads convertis, puis relecture
// complète de la table clients (le store reste l'autorité).
//
// L'implémentation d'origine supprimait l'intégralité du lot demandé même
// quand certaines créations avaient échoué, orphelinant ces fiches. Ici la
// suppression ne reçoit que les ids effectivement convertis et le
// sous-ensemble en échec est remonté pour relance manuelle.
type TransferLeadsUseCase struct {
	LeadRepo   LeadStore
	ClientRepo ClientStore
}

func NewTransferLeadsUseCase(leadRepo LeadStore, clientRepo ClientStore) *TransferLeadsUseCase {
	return &TransferLeadsUseCase{
		LeadRepo:   leadRepo,
		ClientRepo: clientRepo,
	}
}

type TransferInput struct {
	LeadIDs []int64 `json:"lead_ids"`
	// BulkImported distingue la variante "leads importés en masse";
	// l'algorithme est identique.
	BulkImported bool `json:"bulk_imported"`
}

type TransferFailure struct {
	LeadID int64  `json:"lead_id"`
	Reason string `json:"reason"`
}

type TransferOutput struct {
	CreatedCount   int               `json:"created_count"`
	TransferredIDs []int64           `json:"transferred_ids"`
	Failed         []TransferFailure `json:"failed"`
	Clients        []*entity.Client  `json:"clients"`
}

type createResult struct {
	leadID int64
	err    error
}

func (uc *TransferLeadsUseCase) Execute(ctx context.Context, input TransferInput) (*TransferOutput, error) {
	if len(input.LeadIDs) == 0 {
		return nil, &DomainError{
			Code:    "EMPTY_SELECTION",
			Message: "aucun lead sélectionné",
		}
	}

	leads, err := uc.LeadRepo.FindByIDs(ctx, input.LeadIDs)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "lecture des leads impossible: " + err.Error(),
		}
	}

	byID := make(map[int64]*entity.Lead, len(leads))
	for _, l := range leads {
		if l.BulkImported == input.BulkImported {
			byID[l.ID] = l
		}
	}

	var failed []TransferFailure
	var toCreate []*entity.Lead
	for _, id := range input.LeadIDs {
		lead, ok := byID[id]
		if !ok {
			failed = append(failed, TransferFailure{LeadID: id, Reason: "lead introuvable"})
			continue
		}
		toCreate = append(toCreate, lead)
	}

	// Fan-out: toutes les créations partent avant qu'aucune ne soit
	// attendue. Un échec individuel est enregistré, jamais propagé: une
	// fiche invalide ne doit pas bloquer le reste du lot.
	results := make([]createResult, len(toCreate))
	var wg sync.WaitGroup
	for i, lead := range toCreate {
		wg.Add(1)
		go func(i int, lead *entity.Lead) {
			defer wg.Done()
			results[i] = createResult{leadID: lead.ID, err: uc.createClient(ctx, lead)}
		}(i, lead)
	}
	wg.Wait()

	var transferred []int64
	for _, res := range results {
		if res.err != nil {
			log.Warn().Int64("leadID", res.leadID).Err(res.err).Msg("Transfert: création client en échec")
			failed = append(failed, TransferFailure{LeadID: res.leadID, Reason: res.err.Error()})
			continue
		}
		transferred = append(transferred, res.leadID)
	}

	// Zéro succès: on n'efface rien. Aucun lead ne doit disparaître sans
	// contrepartie client confirmée.
	if len(transferred) == 0 {
		return nil, &DomainError{
			Code:    "TRANSFER_FAILED",
			Message: "aucun lead n'a pu être transféré",
		}
	}

	// Suppression du seul sous-ensemble converti. Un échec ici est loggé
	// sans rollback des clients déjà créés: double présence transitoire
	// acceptée, rattrapée à la prochaine tentative.
	if err := uc.LeadRepo.DeleteByIDs(ctx, transferred); err != nil {
		log.Error().Err(err).Ints64("leadIDs", transferred).Msg("Transfert: suppression des leads en échec")
	}

	clients, err := uc.ClientRepo.FindAll(ctx)
	if err != nil {
		// La relecture échoue mais le transfert a eu lieu; l'appelant garde
		// sa dernière liste connue.
		log.Error().Err(err).Msg("Transfert: relecture des clients en échec")
		clients = nil
	}

	log.Info().
		Int("requested", len(input.LeadIDs)).
		Int("created", len(transferred)).
		Int("failed", len(failed)).
		Msg("Transfert terminé")

	return &TransferOutput{
		CreatedCount:   len(transferred),
		TransferredIDs: transferred,
		Failed:         failed,
		Clients:        clients,
	}, nil
}

func (uc *TransferLeadsUseCase) createClient(ctx context.Context, lead *entity.Lead) error {
	client, err := entity.NewClientFromLead(lead)
	if err != nil {
		return err
	}
	return uc.ClientRepo.Create(ctx, client)
}
